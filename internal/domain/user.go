package domain

// User is the externally owned account row consulted for sender display names.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:128" dynamodbav:"user_id"`
	FullName string `json:"fullName" gorm:"column:full_name" dynamodbav:"full_name"`
}

func (User) TableName() string { return "users" }
