package models

// Customer is the identity supplied at account creation. It is not persisted.
type Customer struct {
	CustomerID  int64
	Name        string
	Email       string
	PhoneNumber string
}

func NewCustomer(customerID int64, name, email, phoneNumber string) Customer {
	return Customer{
		CustomerID:  customerID,
		Name:        name,
		Email:       email,
		PhoneNumber: phoneNumber,
	}
}
