package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword cost<=0 时用 bcrypt.DefaultCost；超过 72 字节返回 bcrypt.ErrPasswordTooLong
func HashPassword(pw string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 服务本身没有登录路径，只在测试里校验入库的哈希
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
