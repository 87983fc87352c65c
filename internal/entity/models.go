package entity

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&ForumCategory{},
		&Thread{},
		&Post{},
		&Like{},
		&Report{},
		&ReputationLog{},
		&Notification{},
	}
}
