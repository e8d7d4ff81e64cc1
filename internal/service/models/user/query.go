package user

// QueryUsersModel represents filter parameters for querying users.
type QueryUsersModel struct {
	Ids    []int64 `json:"ids,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}
