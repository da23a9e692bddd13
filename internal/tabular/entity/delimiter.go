package entity

import "fmt"

type Delimiter rune

const (
	DelimiterComma     Delimiter = ','
	DelimiterSemicolon Delimiter = ';'
	DelimiterTab       Delimiter = '\t'
	DelimiterPipe      Delimiter = '|'
)

// Delimiters lists the candidates in preference order.
func Delimiters() []Delimiter {
	return []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab, DelimiterPipe}
}

func (d Delimiter) Rune() rune {
	return rune(d)
}

func (d Delimiter) Name() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterSemicolon:
		return "semicolon"
	case DelimiterTab:
		return "tab"
	case DelimiterPipe:
		return "pipe"
	default:
		return "unknown"
	}
}

func (d Delimiter) String() string {
	return string(rune(d))
}

func (d Delimiter) MarshalText() ([]byte, error) {
	return []byte(d.Name()), nil
}

func (d *Delimiter) UnmarshalText(text []byte) error {
	for _, c := range Delimiters() {
		if c.Name() == string(text) || c.String() == string(text) {
			*d = c
			return nil
		}
	}
	return fmt.Errorf("unknown delimiter %q", text)
}
