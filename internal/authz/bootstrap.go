package authz

import (
	"fmt"

	"github.com/souq-next/internal/constants"
)

const memberRole = "member"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵，资源为路由模板
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: memberRole,
			Policies: []Policy{
				{Object: "/cart", Action: "GET"},
				{Object: "/cart/*", Action: "*"},
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/my-orders", Action: "GET"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/:id/cancel", Action: "PUT"},
			},
		},
		{
			Role:     constants.RoleCustomer,
			Inherits: []string{memberRole},
		},
		{
			Role:     constants.RoleVendor,
			Inherits: []string{memberRole},
			Policies: []Policy{
				{Object: "/orders/vendor/orders", Action: "GET"},
				{Object: "/orders/:id/status", Action: "PUT"},
			},
		},
		{
			Role:     constants.RoleSuperAdmin,
			Inherits: []string{memberRole},
			Policies: []Policy{
				{Object: "/orders/all", Action: "GET"},
				{Object: "/vendors/:id/reconcile", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("create builtin role failed: %w", err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
