package cli

import (
	"strconv"
	"strings"
)

// The flag types below remember whether they were set on the command line so
// config-file values only fill the gaps.

type stringFlag struct {
	Value  string
	WasSet bool
}

func (s *stringFlag) String() string { return s.Value }
func (s *stringFlag) Set(v string) error {
	s.Value = v
	s.WasSet = true
	return nil
}

type intFlag struct {
	Value  int
	WasSet bool
}

func (i *intFlag) String() string { return strconv.Itoa(i.Value) }
func (i *intFlag) Set(v string) error {
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	i.Value = parsed
	i.WasSet = true
	return nil
}

type boolFlag struct {
	Value  bool
	WasSet bool
}

func (b *boolFlag) String() string { return strconv.FormatBool(b.Value) }
func (b *boolFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	b.Value = v == "true" || v == "1" || v == "yes" || v == "y"
	b.WasSet = true
	return nil
}

func (b *boolFlag) IsBoolFlag() bool { return true }
