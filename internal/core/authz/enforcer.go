// Package authz 管理端能力判定：基于 casbin RBAC，主体为令牌中的角色或邮箱。
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"whosbook/internal/domain"
)

// 资源与动作
const (
	ObjectStats   = "stats"
	ObjectMembers = "members"

	ActRead  = "read"
	ActWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const adminRole = "group:admin"

type Enforcer struct {
	e *casbin.SyncedEnforcer
}

// New adminRoles 中的令牌角色、adminEmails 中的邮箱均获得管理能力
func New(adminRoles, adminEmails []string) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	for _, obj := range []string{ObjectStats, ObjectMembers} {
		for _, act := range []string{ActRead, ActWrite} {
			if _, err := e.AddPolicy(adminRole, obj, act); err != nil {
				return nil, fmt.Errorf("add policy %s %s: %w", obj, act, err)
			}
		}
	}
	for _, r := range adminRoles {
		if _, err := e.AddGroupingPolicy(roleSubject(r), adminRole); err != nil {
			return nil, fmt.Errorf("add role %s: %w", r, err)
		}
	}
	for _, mail := range adminEmails {
		if _, err := e.AddGroupingPolicy(emailSubject(mail), adminRole); err != nil {
			return nil, fmt.Errorf("add admin email: %w", err)
		}
	}
	return &Enforcer{e: e}, nil
}

// Allow 匿名调用方一律拒绝
func (en *Enforcer) Allow(id domain.Identity, object, action string) (bool, error) {
	if id.IsAnonymous() {
		return false, nil
	}
	if id.Role != "" {
		ok, err := en.e.Enforce(roleSubject(id.Role), object, action)
		if err != nil || ok {
			return ok, err
		}
	}
	return en.e.Enforce(emailSubject(id.Email), object, action)
}

func roleSubject(r string) string     { return "role:" + r }
func emailSubject(mail string) string { return "email:" + mail }
