package rbac

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"gopkg.in/yaml.v3"

	"hrms/internal/domain/auth"
)

const modelText = `[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == r.obj || p.obj == "*")
`

// Policy maps a role name to the permissions it is granted. "*" grants all.
type Policy struct {
	Roles map[string][]string `yaml:"roles"`
}

func DefaultPolicy() Policy {
	roles := make(map[string][]string, len(auth.RolePermissions))
	for role, perms := range auth.RolePermissions {
		roles[role] = append([]string(nil), perms...)
	}
	return Policy{Roles: roles}
}

// LoadPolicy reads a YAML policy file; an empty path yields the defaults.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read rbac policy: %w", err)
	}
	var policy Policy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse rbac policy: %w", err)
	}
	if len(policy.Roles) == 0 {
		return Policy{}, fmt.Errorf("rbac policy %s defines no roles", path)
	}
	return policy, nil
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

func New(policy Policy) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	for role, perms := range policy.Roles {
		for _, perm := range perms {
			if _, err := e.AddPolicy(role, perm); err != nil {
				return nil, fmt.Errorf("add policy %s/%s: %w", role, perm, err)
			}
		}
	}
	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) HasPermission(_ context.Context, role, permission string) (bool, error) {
	if role == "" {
		return false, nil
	}
	return e.enforcer.Enforce(role, permission)
}

func (e *Enforcer) Permissions(role string) []string {
	rules, err := e.enforcer.GetFilteredPolicy(0, role)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 1 {
			out = append(out, rule[1])
		}
	}
	sort.Strings(out)
	return out
}
