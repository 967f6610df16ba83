package models

// All lists every model for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AppUser{},
		&Workspace{},
		&AIModel{},
		&Chat{},
		&Message{},
		&Image{},
	}
}
