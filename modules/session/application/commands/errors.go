package commands

import (
	"errors"

	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// translateRepoErr maps a repository-level sentinel to the stable
// domain error code the transport layer switches on.
func translateRepoErr(err error) error {
	if errors.Is(err, domainrepo.ErrNotFound) {
		return domain.NewDomainError(domain.CodeNotFound, "session not found", err)
	}
	return domain.NewDomainError(domain.CodeStateConflict, "session store error", err)
}
