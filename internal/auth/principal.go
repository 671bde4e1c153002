package auth

import "context"

// Principal is the authenticated admin attached to a session. A nil ClubID
// with IsSuper set is a super-admin; otherwise the admin is scoped to ClubID.
type Principal struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	ClubID  *string `json:"clubId"`
	IsSuper bool    `json:"isSuper"`
}

// CanManageClub reports whether the principal may mutate the given club and
// the resources scoped to it.
func (p Principal) CanManageClub(clubID string) bool {
	if p.IsSuper {
		return true
	}
	return p.ClubID != nil && *p.ClubID == clubID
}

type contextKey string

const principalKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored by the session middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
