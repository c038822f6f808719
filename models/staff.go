package models

import "arletbank/database"

const StaffCollection = "staffs"

// Staff представляет сотрудника. Ключ - Email, Username равен email в нижнем регистре.
type Staff struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	CreatedBy string
}

// FullName возвращает имя и фамилию
func (s Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

func StaffFromRecord(rec database.Record) (Staff, error) {
	r := database.NewReader(rec)
	s := Staff{
		Email:     r.String("Email"),
		Username:  r.String("Username"),
		FirstName: r.String("FirstName"),
		LastName:  r.String("LastName"),
		Password:  r.String("Password"),
		CreatedBy: r.String("CreatedBy"),
	}
	return s, r.Err()
}

func (s Staff) ToRecord() database.Record {
	return database.Record{
		"Email":     database.String(s.Email),
		"Username":  database.String(s.Username),
		"FirstName": database.String(s.FirstName),
		"LastName":  database.String(s.LastName),
		"Password":  database.String(s.Password),
		"CreatedBy": database.String(s.CreatedBy),
	}
}
