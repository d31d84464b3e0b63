package domain

// User 用户记录；Username 为外部主键，ID 由服务端生成
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string // bcrypt，不存明文
	UserStatus   int32
}

// UserStore 按 username 存取用户，实现方自带并发安全
type UserStore interface {
	// Put 新增或覆盖 u.Username 对应的记录（后写覆盖先写）
	Put(u User)
	// Get 返回副本；未存过则 ok=false（不是错误）
	Get(username string) (u User, ok bool)
	Len() int
}
