package market

import (
	"fmt"
	"strings"
)

// Pair names the two instruments a simulation trades. Order matters: the
// entry signal is the First instrument's trailing return minus the Second's.
type Pair struct {
	First  string
	Second string
}

// DefaultPair is the consumer-staples ETF pair the strategy was built on.
var DefaultPair = Pair{First: "KXI", Second: "XLP"}

func (p Pair) Contains(name string) bool {
	return name == p.First || name == p.Second
}

func (p Pair) Validate() error {
	if strings.TrimSpace(p.First) == "" || strings.TrimSpace(p.Second) == "" {
		return fmt.Errorf("pair: both instrument names are required")
	}
	if p.First == p.Second {
		return fmt.Errorf("pair: instruments must differ, got %q twice", p.First)
	}
	return nil
}

func (p Pair) String() string {
	return p.First + "/" + p.Second
}
