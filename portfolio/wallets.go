package portfolio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/status-im/wallet-aggregator/aggregator"
)

// ErrInvalidWallet is returned for a wallet entry without currency or address
var ErrInvalidWallet = errors.New("invalid wallet")

// walletsFile is the mapping form of a wallets file
type walletsFile struct {
	Wallets []walletEntry `yaml:"wallets"`
}

// walletEntry is either a {currency, address} mapping or a
// [currency, address] pair
type walletEntry aggregator.WalletRequest

func (e *walletEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		if len(node.Content) != 2 ||
			node.Content[0].Kind != yaml.ScalarNode ||
			node.Content[1].Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: expected a [currency, address] pair", ErrInvalidWallet, node.Line)
		}
		e.Currency = node.Content[0].Value
		e.Address = node.Content[1].Value
		return nil
	}

	var w aggregator.WalletRequest
	if err := node.Decode(&w); err != nil {
		return err
	}
	*e = walletEntry(w)
	return nil
}

// LoadWallets reads a YAML (or JSON) wallets file. Both a bare list and a
// mapping with a "wallets" key are accepted; entries are {currency, address}
// mappings or [currency, address] pairs.
func LoadWallets(path string) ([]aggregator.WalletRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallets file: %w", err)
	}
	return ParseWallets(data)
}

// ParseWallets parses the content of a wallets file
func ParseWallets(data []byte) ([]aggregator.WalletRequest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse wallets: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var entries []walletEntry
	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		if err := root.Content[0].Decode(&entries); err != nil {
			return nil, fmt.Errorf("parse wallets: %w", err)
		}
	case yaml.MappingNode:
		var file walletsFile
		if err := root.Content[0].Decode(&file); err != nil {
			return nil, fmt.Errorf("parse wallets: %w", err)
		}
		entries = file.Wallets
	default:
		return nil, fmt.Errorf("parse wallets: %w: expected a list or a mapping at line %d", ErrInvalidWallet, root.Content[0].Line)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	wallets := make([]aggregator.WalletRequest, len(entries))
	for i, e := range entries {
		wallets[i] = aggregator.WalletRequest(e)
	}
	for i := range wallets {
		if err := normalize(&wallets[i]); err != nil {
			return nil, fmt.Errorf("wallet %d: %w", i, err)
		}
	}
	return wallets, nil
}

// ParseWalletArgs parses "currency:address" command line arguments
func ParseWalletArgs(args []string) ([]aggregator.WalletRequest, error) {
	wallets := make([]aggregator.WalletRequest, 0, len(args))
	for _, arg := range args {
		currency, address, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not currency:address", ErrInvalidWallet, arg)
		}
		w := aggregator.WalletRequest{Currency: currency, Address: address}
		if err := normalize(&w); err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

func normalize(w *aggregator.WalletRequest) error {
	w.Currency = strings.ToLower(strings.TrimSpace(w.Currency))
	w.Address = strings.TrimSpace(w.Address)
	if w.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidWallet)
	}
	if w.Address == "" {
		return fmt.Errorf("%w: missing address", ErrInvalidWallet)
	}
	return nil
}

// NormalizeWallets trims every entry and lower cases its currency. It fails
// on the first entry without currency or address.
func NormalizeWallets(wallets []aggregator.WalletRequest) ([]aggregator.WalletRequest, error) {
	out := make([]aggregator.WalletRequest, len(wallets))
	for i, w := range wallets {
		if err := normalize(&w); err != nil {
			return nil, fmt.Errorf("wallet %d: %w", i, err)
		}
		out[i] = w
	}
	return out, nil
}
