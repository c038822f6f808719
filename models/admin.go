package models

import "arletbank/database"

const AdminCollection = "admins"

// Admin представляет администратора банка. Ключ - Username.
type Admin struct {
	Username  string
	Name      string
	Password  string // bcrypt-хеш
	CreatedBy string
}

// AdminFromRecord отображает запись коллекции admins на Admin
func AdminFromRecord(rec database.Record) (Admin, error) {
	r := database.NewReader(rec)
	a := Admin{
		Username:  r.String("Username"),
		Name:      r.String("Name"),
		Password:  r.String("Password"),
		CreatedBy: r.String("CreatedBy"),
	}
	return a, r.Err()
}

// ToRecord возвращает запись для вставки в коллекцию
func (a Admin) ToRecord() database.Record {
	return database.Record{
		"Username":  database.String(a.Username),
		"Name":      database.String(a.Name),
		"Password":  database.String(a.Password),
		"CreatedBy": database.String(a.CreatedBy),
	}
}
