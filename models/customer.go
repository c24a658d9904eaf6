package models

type Customer struct {
	UUID     string `json:"uuid"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
