package registry

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/feral-file/propfi-txbuilder/internal/adapter"
	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
)

// ErrBlueprintNotFound is returned when the blueprint file does not exist
var ErrBlueprintNotFound = errors.New("contract blueprint not found")

// Role identifies a validator the transaction composer references
type Role string

const (
	RoleMintingPolicy Role = "minting_policy"
	RoleFractionalize Role = "fractionalize"
	RoleMarketplace   Role = "marketplace"
	RoleSyndicate     Role = "syndicate_escrow"
	RoleYieldTreasury Role = "yield_treasury"
)

// Roles lists every validator role in a stable order
var Roles = []Role{
	RoleMintingPolicy,
	RoleFractionalize,
	RoleMarketplace,
	RoleSyndicate,
	RoleYieldTreasury,
}

// roleTitles maps each role to its dotted blueprint title
var roleTitles = map[Role]string{
	RoleMintingPolicy: "fractionalize.cip68_minting.mint",
	RoleFractionalize: "fractionalize.fractionalize.spend",
	RoleMarketplace:   "fractionalize.marketplace.spend",
	RoleSyndicate:     "syndicate.syndicate_escrow.spend",
	RoleYieldTreasury: "yield_distribution.yield_treasury.spend",
}

// Title returns the blueprint title of a role
func (r Role) Title() string {
	return roleTitles[r]
}

// Mode selects how missing validators are handled at load time
type Mode string

const (
	// ModeStrict fails the load when any validator is missing
	ModeStrict Mode = "strict"
	// ModePermissive substitutes a placeholder and logs a warning, for partial deployments.
	// Actions needing a placeholder fail with ErrContractUnavailable when composed.
	ModePermissive Mode = "permissive"
)

// ParseMode parses a registry mode, defaulting to permissive
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePermissive:
		return ModePermissive, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unknown contract registry mode %q", s)
	}
}

// Script is a compiled validator descriptor
type Script struct {
	Title string `json:"title"`
	// Hash is the hex encoded 28-byte script hash; for the minting policy it is the policy id
	Hash string `json:"hash"`
	// Code is the hex encoded compiled script
	Code          string `json:"compiled_code"`
	PlutusVersion string `json:"plutus_version"`
	Placeholder   bool   `json:"placeholder"`
}

// Available reports whether the script was loaded from the blueprint
func (s Script) Available() bool {
	return !s.Placeholder && s.Hash != "" && s.Code != ""
}

// Contracts is the immutable set of validators loaded from a blueprint
type Contracts struct {
	scripts map[Role]Script
}

// NewContracts builds a contract set from already resolved scripts
func NewContracts(scripts map[Role]Script) *Contracts {
	c := &Contracts{scripts: make(map[Role]Script, len(Roles))}
	for _, role := range Roles {
		s, ok := scripts[role]
		if !ok {
			s = placeholder(role)
		}
		c.scripts[role] = s
	}
	return c
}

// Script returns the validator for a role, or ErrContractUnavailable if it is a placeholder
func (c *Contracts) Script(role Role) (Script, error) {
	s, ok := c.scripts[role]
	if !ok || !s.Available() {
		return Script{}, fmt.Errorf("%w: %s (%s)", domain.ErrContractUnavailable, role, role.Title())
	}
	return s, nil
}

// Require checks that every listed role is available
func (c *Contracts) Require(roles ...Role) error {
	var missing []string
	for _, role := range roles {
		if _, err := c.Script(role); err != nil {
			missing = append(missing, role.Title())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrContractUnavailable, strings.Join(missing, ", "))
	}
	return nil
}

// MintingPolicyID returns the policy id of the CIP-68 minting policy
func (c *Contracts) MintingPolicyID() (domain.PolicyID, error) {
	s, err := c.Script(RoleMintingPolicy)
	if err != nil {
		return "", err
	}
	return domain.PolicyID(s.Hash), nil
}

// Summary lists every role with whether it is available
func (c *Contracts) Summary() map[Role]bool {
	out := make(map[Role]bool, len(c.scripts))
	for role, s := range c.scripts {
		out[role] = s.Available()
	}
	return out
}

func placeholder(role Role) Script {
	return Script{Title: role.Title(), Placeholder: true}
}

// blueprintValidator is a validator entry of a CIP-57 blueprint
type blueprintValidator struct {
	Title        string `json:"title"`
	CompiledCode string `json:"compiledCode"`
	Hash         string `json:"hash"`
}

// blueprint is the subset of a CIP-57 plutus.json the registry reads
type blueprint struct {
	Preamble struct {
		Title         string `json:"title"`
		Version       string `json:"version"`
		PlutusVersion string `json:"plutusVersion"`
	} `json:"preamble"`
	Validators []blueprintValidator `json:"validators"`
}

// Loader defines the interface for loading contracts from a blueprint file
//
//go:generate mockgen -source=contracts.go -destination=../mocks/contracts_loader.go -package=mocks -mock_names=Loader=MockContractsLoader
type Loader interface {
	// Load reads the blueprint at path and resolves every validator role
	Load(path string) (*Contracts, error)
}

type loader struct {
	fs   adapter.FileSystem
	json adapter.JSON
	mode Mode
}

// NewLoader creates a new blueprint Loader with injected dependencies
func NewLoader(fs adapter.FileSystem, json adapter.JSON, mode Mode) Loader {
	return &loader{
		fs:   fs,
		json: json,
		mode: mode,
	}
}

// Load reads the blueprint at path and resolves every validator role
func (l *loader) Load(path string) (*Contracts, error) {
	if _, err := l.fs.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s: run the contract build step first (aiken build)", ErrBlueprintNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat contract blueprint: %w", err)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract blueprint: %w", err)
	}

	var bp blueprint
	if err := l.json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("failed to parse contract blueprint: %w", err)
	}

	byTitle := make(map[string]blueprintValidator, len(bp.Validators))
	for _, v := range bp.Validators {
		byTitle[v.Title] = v
	}

	scripts := make(map[Role]Script, len(Roles))
	var unavailable []string
	for _, role := range Roles {
		v, ok := byTitle[role.Title()]
		if !ok {
			unavailable = append(unavailable, role.Title()+": missing")
			continue
		}
		if err := validateValidator(v); err != nil {
			unavailable = append(unavailable, role.Title()+": "+err.Error())
			continue
		}
		scripts[role] = Script{
			Title:         v.Title,
			Hash:          strings.ToLower(v.Hash),
			Code:          v.CompiledCode,
			PlutusVersion: bp.Preamble.PlutusVersion,
		}
	}

	if len(unavailable) > 0 {
		sort.Strings(unavailable)
		if l.mode == ModeStrict {
			return nil, fmt.Errorf("%w: %s", domain.ErrContractUnavailable, strings.Join(unavailable, "; "))
		}
		for _, reason := range unavailable {
			logger.Warn("Validator unavailable, using placeholder",
				zap.String("validator", reason),
				zap.String("blueprint", path))
		}
	}

	return NewContracts(scripts), nil
}

func validateValidator(v blueprintValidator) error {
	hash, err := hex.DecodeString(v.Hash)
	if err != nil || len(hash) != domain.POLICY_ID_LENGTH {
		return fmt.Errorf("invalid script hash %q", v.Hash)
	}
	if v.CompiledCode == "" {
		return errors.New("empty compiled code")
	}
	if _, err := hex.DecodeString(v.CompiledCode); err != nil {
		return errors.New("compiled code is not hex")
	}
	return nil
}

// Lazy loads a blueprint on first use and returns the same contracts afterwards.
// It is safe for concurrent use; the load runs at most once.
type Lazy struct {
	load func() (*Contracts, error)
}

// NewLazy creates a holder for the blueprint at path
func NewLazy(loader Loader, path string) *Lazy {
	return &Lazy{
		load: sync.OnceValues(func() (*Contracts, error) {
			return loader.Load(path)
		}),
	}
}

// Contracts returns the loaded contracts, loading them on the first call
func (l *Lazy) Contracts() (*Contracts, error) {
	return l.load()
}

// Preload loads the blueprint eagerly at process start. A blueprint file that is
// missing or unreadable is an error in every mode; permissive mode only tolerates
// missing validators inside a readable blueprint.
func (l *Lazy) Preload() (*Contracts, error) {
	contracts, err := l.Contracts()
	if err != nil {
		return nil, fmt.Errorf("failed to preload contract blueprint: %w", err)
	}
	return contracts, nil
}
