package domain

// User status values as the backend encodes them.
const (
	UserStatusDisabled = 0
	UserStatusNormal   = 1
	UserStatusLocked   = 2
)

// User is one row of the managed user table.
type User struct {
	ID         int64  `json:"id"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	Role       string `json:"role"`
	UserStatus int    `json:"user_status"`
	PowerPoint int64  `json:"power_point"`
}

// UserQuery are the list filters forwarded to GET /user/list.
type UserQuery struct {
	Keyword  string `json:"keyword,omitempty"`
	Status   *int   `json:"status,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

// UserPage is the data portion of the user list envelope.
type UserPage struct {
	Total int64  `json:"total"`
	List  []User `json:"list"`
}

// CreateUserRequest is the body of POST /user/create.
type CreateUserRequest struct {
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the body of PUT /user/update.
type UpdateUserRequest struct {
	ID       int64  `json:"id"`
	Mobile   string `json:"mobile,omitempty"`
	Email    string `json:"email,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Role     string `json:"role,omitempty"`
}

// PowerPointBalance is the data portion of GET /auth/adminPowerPoint: the
// compute-credit balance the admin can still hand out.
type PowerPointBalance struct {
	PowerPoint int64 `json:"powerPoint"`
}
