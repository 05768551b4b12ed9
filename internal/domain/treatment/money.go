package treatment

import (
	"bytes"
	"strconv"
)

// Money is a currency amount that tolerates both JSON numbers and numeric
// strings on the wire. Older mobile clients serialize cost fields as strings
// ("1500" instead of 1500), so every money-valued field accepts either form.
type Money float64

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*m = 0
			return nil
		}
		*m = CoerceMoney(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = Money(f)
	return nil
}

// CoerceMoney parses a string representation of an amount. Anything that is
// not a number coerces to 0 rather than failing the whole submission.
func CoerceMoney(s string) Money {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Money(f)
}
