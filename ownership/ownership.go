// Package ownership implements the single authorization check used at every
// resource boundary: the resource's owning user must match the caller. The
// check is a pure comparison with no side effects and must run before any
// mutation or detail disclosure.
package ownership

import (
	"fmt"

	"github.com/user/lifeos-go/apperror"
)

// Assert returns nil when the resource identified by kind is owned by userID,
// and a Forbidden error otherwise. Missing resources are the store's concern;
// by the time Assert runs, the lookup has already succeeded.
func Assert(kind string, authorID, userID int) error {
	if authorID != userID {
		return apperror.NewForbiddenError(fmt.Sprintf("you do not have access to this %s", kind), nil)
	}
	return nil
}
