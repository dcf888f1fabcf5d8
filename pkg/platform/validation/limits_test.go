package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "regadmin/pkg/domain-errors"
)

// LimitsSuite tests the length checks applied at the HTTP boundary.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes at max", func() {
		s.NoError(CheckStringLength("q", strings.Repeat("a", MaxSearchTermLength), MaxSearchTermLength))
	})

	s.Run("passes when empty", func() {
		s.NoError(CheckStringLength("q", "", MaxSearchTermLength))
	})

	s.Run("counts characters, not bytes", func() {
		term := strings.Repeat("क", MaxSearchTermLength)
		s.Greater(len(term), MaxSearchTermLength)
		s.NoError(CheckStringLength("q", term, MaxSearchTermLength))
		s.Error(CheckStringLength("q", term+"क", MaxSearchTermLength))
	})

	s.Run("fails one past max", func() {
		err := CheckStringLength("q", strings.Repeat("a", MaxSearchTermLength+1), MaxSearchTermLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "q exceeds max length of 200")
	})
}
