package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// CheckConstraint reports whether binary satisfies the semver constraint a
// config declares, such as "~0.1" or ">= 0.1, < 0.3".
//
// An empty constraint and a "main" development build always pass.
func CheckConstraint(binary, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	binary = strings.TrimPrefix(strings.TrimSpace(binary), "v")

	if constraint == "" || binary == "main" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid version constraint %q", constraint)
	}

	v, err := semver.NewVersion(binary)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid binary version %q", binary)
	}

	if !c.Check(v) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "config requires version %s but this is %s", constraint, v)
	}

	return nil
}
