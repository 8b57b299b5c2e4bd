package auth

import (
	"net/url"
	"regexp"

	"github.com/me/spq/pkg/model"
)

// Rule gates a section of the application behind a role.
type Rule struct {
	Pattern *regexp.Regexp
	Role    string
}

// DefaultRules is the guard table fixed at startup. Order is significant:
// the first matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: regexp.MustCompile(`^/filters(/.*)?$`), Role: "filter"},
		{Pattern: regexp.MustCompile(`^/quotes(/.*)?$`), Role: "quotes"},
	}
}

// Check runs the authorization decision for one request path.
//
// A nil result means the request may proceed. Otherwise the failure names
// why: unauthenticated when no user is present and the path requires one,
// forbidden (carrying the required role) when a matched rule is not
// satisfied. isLogin exempts the login path from the unauthenticated
// check so the login form stays reachable.
func Check(rules []Rule, path string, user *model.UserAccount, isLogin bool) *model.AuthFailure {
	if user == nil && !isLogin {
		return &model.AuthFailure{Reason: model.ReasonUnauthenticated}
	}

	if user != nil {
		for i := range rules {
			if rules[i].Pattern.MatchString(path) {
				if !user.HasRole(rules[i].Role) {
					return &model.AuthFailure{
						Reason:       model.ReasonForbidden,
						RequiredRole: rules[i].Role,
					}
				}
				break
			}
		}
	}

	return nil
}

// LoginRedirectURL builds the /login target for a rejected request,
// carrying the original path+query so login can send the user back.
// Parameter order is fixed: redirectTo, reason, requiredRole.
func LoginRedirectURL(originalPath, originalQuery string, failure *model.AuthFailure) string {
	target := originalPath
	if originalQuery != "" {
		target += "?" + originalQuery
	}

	redirect := "/login?redirectTo=" + url.QueryEscape(target) +
		"&reason=" + url.QueryEscape(string(failure.Reason))
	if failure.RequiredRole != "" {
		redirect += "&requiredRole=" + url.QueryEscape(failure.RequiredRole)
	}
	return redirect
}
