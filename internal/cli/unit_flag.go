package cli

import (
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/pflag"
)

// unitFlag lets --unit accept hours/minutes/seconds or h/m/s.
type unitFlag struct {
	unit *domain.TimeUnit
}

var _ pflag.Value = (*unitFlag)(nil)

func newUnitFlag(p *domain.TimeUnit, def domain.TimeUnit) *unitFlag {
	if def == "" {
		def = domain.UnitMinutes
	}
	*p = def
	return &unitFlag{unit: p}
}

func (f *unitFlag) String() string { return string(*f.unit) }

func (f *unitFlag) Set(s string) error {
	u, err := domain.ParseTimeUnit(s)
	if err != nil {
		return err
	}
	*f.unit = u
	return nil
}

func (f *unitFlag) Type() string { return "unit" }

func addUnitFlag(fs *pflag.FlagSet, p *domain.TimeUnit, def domain.TimeUnit) {
	fs.VarP(newUnitFlag(p, def), "unit", "u", "display unit: hours, minutes or seconds")
}
