package user

import (
	"petstore-user/internal/domain"
	"petstore-user/internal/service"
)

// userPayload POST /user 的请求体；id 只读取用于避免重号，最终会被覆盖
type userPayload struct {
	ID         *int64 `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	UserStatus int32  `json:"userStatus"`
}

func (p userPayload) toInput() service.CreateInput {
	return service.CreateInput{
		ID:         p.ID,
		Username:   p.Username,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Password:   p.Password,
		UserStatus: p.UserStatus,
	}
}

// userView GET 响应体；password 只在 stub 模式出现（存储里只有哈希，不外露）
type userView struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"`
	Phone      string `json:"phone"`
	UserStatus int32  `json:"userStatus"`
}

func viewOf(u domain.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		UserStatus: u.UserStatus,
	}
}

func viewOfStub(s service.StubUser) userView {
	v := viewOf(s.User)
	v.Password = s.Password
	return v
}
