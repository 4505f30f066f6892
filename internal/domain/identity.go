package domain

// Identity 从令牌解析出的调用方；零值表示匿名
type Identity struct {
	MemberID uint64
	Email    string
	Role     string
}

func Anonymous() Identity { return Identity{} }

func (i Identity) IsAnonymous() bool { return i.Email == "" }
