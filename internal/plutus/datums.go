package plutus

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// CIP-68 metadata datum version
const referenceDatumVersion = 1

// Reference datum metadata keys, in wire order
const (
	metadataKeyName             = "name"
	metadataKeyDescription      = "description"
	metadataKeyImage            = "image"
	metadataKeyLocation         = "location"
	metadataKeyTotalValue       = "total_value"
	metadataKeyTotalFractions   = "total_fractions"
	metadataKeyPricePerFraction = "price_per_fraction"
	metadataKeyLegalDocument    = "legal_document"
)

// EncodeReferenceDatum encodes the CIP-68 metadata datum carried by the reference token:
// Constr0[{metadata map}, version]
func EncodeReferenceDatum(m domain.PropertyMetadata) (Data, error) {
	for field, v := range map[string]string{
		metadataKeyName:     m.Name,
		metadataKeyImage:    m.Image,
		metadataKeyLocation: m.Location,
	} {
		if v == "" {
			return nil, malformed("metadata "+field, "missing")
		}
	}

	entries := Map{
		{Key: Text(metadataKeyName), Value: Text(m.Name)},
		{Key: Text(metadataKeyDescription), Value: Text(m.Description)},
		{Key: Text(metadataKeyImage), Value: Text(m.Image)},
		{Key: Text(metadataKeyLocation), Value: Text(m.Location)},
		{Key: Text(metadataKeyTotalValue), Value: NewInt(m.TotalValue)},
		{Key: Text(metadataKeyTotalFractions), Value: NewInt(m.TotalFractions)},
		{Key: Text(metadataKeyPricePerFraction), Value: NewInt(m.PricePerFraction)},
	}
	if m.LegalDocumentCID != "" {
		entries = append(entries, Pair{Key: Text(metadataKeyLegalDocument), Value: Text(m.LegalDocumentCID)})
	}

	return NewConstr(0, entries, NewInt(referenceDatumVersion)), nil
}

// DecodeReferenceDatum decodes a CIP-68 metadata datum
func DecodeReferenceDatum(d Data) (domain.PropertyMetadata, error) {
	fields, err := expectConstr("reference datum", d, 0, 2)
	if err != nil {
		return domain.PropertyMetadata{}, err
	}
	entries, ok := fields[0].(Map)
	if !ok {
		return domain.PropertyMetadata{}, malformed("reference datum", "metadata is not a map")
	}
	version, err := asInt64("reference datum version", fields[1])
	if err != nil {
		return domain.PropertyMetadata{}, err
	}
	if version != referenceDatumVersion {
		return domain.PropertyMetadata{}, malformed("reference datum version", fmt.Sprintf("unsupported version %d", version))
	}

	var m domain.PropertyMetadata
	for _, entry := range entries {
		key, err := asText("metadata key", entry.Key)
		if err != nil {
			return domain.PropertyMetadata{}, err
		}
		field := "metadata " + key
		switch key {
		case metadataKeyName:
			m.Name, err = asText(field, entry.Value)
		case metadataKeyDescription:
			m.Description, err = asText(field, entry.Value)
		case metadataKeyImage:
			m.Image, err = asText(field, entry.Value)
		case metadataKeyLocation:
			m.Location, err = asText(field, entry.Value)
		case metadataKeyTotalValue:
			m.TotalValue, err = asInt64(field, entry.Value)
		case metadataKeyTotalFractions:
			m.TotalFractions, err = asInt64(field, entry.Value)
		case metadataKeyPricePerFraction:
			m.PricePerFraction, err = asInt64(field, entry.Value)
		case metadataKeyLegalDocument:
			m.LegalDocumentCID, err = asText(field, entry.Value)
		}
		if err != nil {
			return domain.PropertyMetadata{}, err
		}
	}
	return m, nil
}

// EncodePropertyDatum encodes the fractionalize validator datum:
// Constr0[owner, price, Constr0[policy, name], totalFractions,
// Constr0[name, description, location, totalValue, totalFractions]]
func EncodePropertyDatum(p domain.PropertyDatum) (Data, error) {
	owner, err := keyHashField("owner", p.Owner)
	if err != nil {
		return nil, err
	}
	fraction, err := tokenField("fraction token", p.FractionToken)
	if err != nil {
		return nil, err
	}
	if p.Metadata.Name == "" {
		return nil, malformed("metadata name", "missing")
	}
	if p.Metadata.Location == "" {
		return nil, malformed("metadata location", "missing")
	}

	metadata := NewConstr(0,
		Text(p.Metadata.Name),
		Text(p.Metadata.Description),
		Text(p.Metadata.Location),
		NewInt(p.Metadata.TotalValue),
		NewInt(p.Metadata.TotalFractions),
	)

	return NewConstr(0,
		owner,
		NewInt(p.Price),
		fraction,
		NewInt(p.TotalFractions),
		metadata,
	), nil
}

// DecodePropertyDatum decodes a fractionalize validator datum
func DecodePropertyDatum(d Data) (domain.PropertyDatum, error) {
	fields, err := expectConstr("property datum", d, 0, 5)
	if err != nil {
		return domain.PropertyDatum{}, err
	}

	var p domain.PropertyDatum
	if p.Owner, err = asKeyHash("owner", fields[0]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.Price, err = asInt64("price", fields[1]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.FractionToken, err = asAsset("fraction token", fields[2]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.TotalFractions, err = asInt64("total fractions", fields[3]); err != nil {
		return domain.PropertyDatum{}, err
	}

	meta, err := expectConstr("property metadata", fields[4], 0, 5)
	if err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.Metadata.Name, err = asText("metadata name", meta[0]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.Metadata.Description, err = asText("metadata description", meta[1]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.Metadata.Location, err = asText("metadata location", meta[2]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.Metadata.TotalValue, err = asInt64("metadata total value", meta[3]); err != nil {
		return domain.PropertyDatum{}, err
	}
	if p.Metadata.TotalFractions, err = asInt64("metadata total fractions", meta[4]); err != nil {
		return domain.PropertyDatum{}, err
	}
	return p, nil
}

// EncodeMarketplaceDatum encodes a listing:
// Constr0[seller, price, Constr0[stablecoin], Constr0[fraction asset], fractionAmount]
func EncodeMarketplaceDatum(l domain.Listing) (Data, error) {
	seller, err := keyHashField("seller", l.Seller)
	if err != nil {
		return nil, err
	}
	stablecoin, err := tokenField("stablecoin", l.Stablecoin)
	if err != nil {
		return nil, err
	}
	fraction, err := tokenField("fraction asset", l.FractionAsset)
	if err != nil {
		return nil, err
	}

	return NewConstr(0,
		seller,
		NewInt(l.Price),
		stablecoin,
		fraction,
		NewInt(l.FractionAmount),
	), nil
}

// DecodeMarketplaceDatum decodes a listing
func DecodeMarketplaceDatum(d Data) (domain.Listing, error) {
	fields, err := expectConstr("marketplace datum", d, 0, 5)
	if err != nil {
		return domain.Listing{}, err
	}

	var l domain.Listing
	if l.Seller, err = asKeyHash("seller", fields[0]); err != nil {
		return domain.Listing{}, err
	}
	if l.Price, err = asInt64("price", fields[1]); err != nil {
		return domain.Listing{}, err
	}
	if l.Stablecoin, err = asAsset("stablecoin", fields[2]); err != nil {
		return domain.Listing{}, err
	}
	if l.FractionAsset, err = asAsset("fraction asset", fields[3]); err != nil {
		return domain.Listing{}, err
	}
	if l.FractionAmount, err = asInt64("fraction amount", fields[4]); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// EncodeSyndicateDatum encodes a syndicate escrow:
// Constr0[Constr<state>[], target, currentRaised, deadline, [[investor, amount]...],
// seller, Constr0[stablecoin], Constr0[fraction asset], governanceDoc,
// Constr0[minInvestment, maxInvestment, maxPercentage]]
func EncodeSyndicateDatum(s domain.SyndicateEscrow) (Data, error) {
	stateTag, ok := SyndicateStateTag(s.State)
	if !ok {
		return nil, malformed("state", fmt.Sprintf("unknown syndicate state %q", s.State))
	}
	if s.Deadline.IsZero() {
		return nil, malformed("deadline", "missing")
	}

	investors := make(List, 0, len(s.Investors))
	for i, inv := range s.Investors {
		pkh, err := keyHashField(fmt.Sprintf("investors[%d]", i), inv.Investor)
		if err != nil {
			return nil, err
		}
		investors = append(investors, List{pkh, NewInt(inv.Amount)})
	}

	seller, err := keyHashField("seller", s.Seller)
	if err != nil {
		return nil, err
	}
	stablecoin, err := tokenField("stablecoin", s.Stablecoin)
	if err != nil {
		return nil, err
	}
	fraction, err := tokenField("fraction asset", s.FractionAsset)
	if err != nil {
		return nil, err
	}
	governance, err := fixedHexField("governance document", string(s.GovernanceDoc), domain.DOCUMENT_HASH_LENGTH)
	if err != nil {
		return nil, err
	}

	limits := NewConstr(0,
		NewInt(s.Limits.MinInvestment),
		NewInt(s.Limits.MaxInvestment),
		NewInt(s.Limits.MaxPercentage),
	)

	return NewConstr(0,
		NewConstr(stateTag),
		NewInt(s.Target),
		NewInt(s.CurrentRaised),
		NewInt(s.Deadline.UnixMilli()),
		investors,
		seller,
		stablecoin,
		fraction,
		governance,
		limits,
	), nil
}

// DecodeSyndicateDatum decodes a syndicate escrow
func DecodeSyndicateDatum(d Data) (domain.SyndicateEscrow, error) {
	fields, err := expectConstr("syndicate datum", d, 0, 10)
	if err != nil {
		return domain.SyndicateEscrow{}, err
	}

	var s domain.SyndicateEscrow
	state, ok := fields[0].(Constr)
	if !ok || len(state.Fields) != 0 {
		return domain.SyndicateEscrow{}, malformed("state", "expected a field-less constructor")
	}
	if s.State, ok = syndicateStatesByTag[state.Tag]; !ok {
		return domain.SyndicateEscrow{}, malformed("state", fmt.Sprintf("unknown constructor %d", state.Tag))
	}
	if s.Target, err = asInt64("target", fields[1]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.CurrentRaised, err = asInt64("current raised", fields[2]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.Deadline, err = asTime("deadline", fields[3]); err != nil {
		return domain.SyndicateEscrow{}, err
	}

	investors, ok := fields[4].(List)
	if !ok {
		return domain.SyndicateEscrow{}, malformed("investors", "expected a list")
	}
	s.Investors = make([]domain.InvestorRecord, 0, len(investors))
	for i, item := range investors {
		field := fmt.Sprintf("investors[%d]", i)
		pair, ok := item.(List)
		if !ok || len(pair) != 2 {
			return domain.SyndicateEscrow{}, malformed(field, "expected [investor, amount]")
		}
		var record domain.InvestorRecord
		if record.Investor, err = asKeyHash(field, pair[0]); err != nil {
			return domain.SyndicateEscrow{}, err
		}
		if record.Amount, err = asInt64(field, pair[1]); err != nil {
			return domain.SyndicateEscrow{}, err
		}
		s.Investors = append(s.Investors, record)
	}

	if s.Seller, err = asKeyHash("seller", fields[5]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.Stablecoin, err = asAsset("stablecoin", fields[6]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.FractionAsset, err = asAsset("fraction asset", fields[7]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	governance, err := asFixedHex("governance document", fields[8], domain.DOCUMENT_HASH_LENGTH)
	if err != nil {
		return domain.SyndicateEscrow{}, err
	}
	s.GovernanceDoc = domain.Hash32(governance)

	limits, err := expectConstr("investment limits", fields[9], 0, 3)
	if err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.Limits.MinInvestment, err = asInt64("min investment", limits[0]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.Limits.MaxInvestment, err = asInt64("max investment", limits[1]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if s.Limits.MaxPercentage, err = asInt64("max percentage", limits[2]); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	return s, nil
}

// EncodeYieldTreasuryDatum encodes a yield treasury:
// Constr0[Constr0[property token], totalFractions, accumulatedYield, lastDistribution,
// Constr0[stablecoin], manager]
func EncodeYieldTreasuryDatum(t domain.YieldTreasury) (Data, error) {
	property, err := tokenField("property token", t.PropertyToken)
	if err != nil {
		return nil, err
	}
	stablecoin, err := tokenField("stablecoin", t.Stablecoin)
	if err != nil {
		return nil, err
	}
	manager, err := keyHashField("manager", t.Manager)
	if err != nil {
		return nil, err
	}
	if t.LastDistribution.IsZero() {
		return nil, malformed("last distribution", "missing")
	}

	return NewConstr(0,
		property,
		NewInt(t.TotalFractions),
		NewInt(t.AccumulatedYield),
		NewInt(t.LastDistribution.UnixMilli()),
		stablecoin,
		manager,
	), nil
}

// DecodeYieldTreasuryDatum decodes a yield treasury
func DecodeYieldTreasuryDatum(d Data) (domain.YieldTreasury, error) {
	fields, err := expectConstr("yield treasury datum", d, 0, 6)
	if err != nil {
		return domain.YieldTreasury{}, err
	}

	var t domain.YieldTreasury
	if t.PropertyToken, err = asAsset("property token", fields[0]); err != nil {
		return domain.YieldTreasury{}, err
	}
	if t.TotalFractions, err = asInt64("total fractions", fields[1]); err != nil {
		return domain.YieldTreasury{}, err
	}
	if t.AccumulatedYield, err = asInt64("accumulated yield", fields[2]); err != nil {
		return domain.YieldTreasury{}, err
	}
	if t.LastDistribution, err = asTime("last distribution", fields[3]); err != nil {
		return domain.YieldTreasury{}, err
	}
	if t.Stablecoin, err = asAsset("stablecoin", fields[4]); err != nil {
		return domain.YieldTreasury{}, err
	}
	if t.Manager, err = asKeyHash("manager", fields[5]); err != nil {
		return domain.YieldTreasury{}, err
	}
	return t, nil
}

// Field encoders

func hexField(field string, s string) (Bytes, error) {
	if s == "" {
		return nil, malformed(field, "missing")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, malformed(field, "invalid hex")
	}
	return Bytes(b), nil
}

func fixedHexField(field string, s string, size int) (Bytes, error) {
	b, err := hexField(field, s)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, malformed(field, fmt.Sprintf("expected %d bytes, got %d", size, len(b)))
	}
	return b, nil
}

func keyHashField(field string, pkh domain.PubKeyHash) (Bytes, error) {
	return fixedHexField(field, string(pkh), domain.KEY_HASH_LENGTH)
}

// tokenField encodes a native token reference as Constr0[policy, name]
func tokenField(field string, asset domain.AssetRef) (Data, error) {
	if asset.PolicyID == "" {
		return nil, malformed(field, "missing policy id")
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	policy, err := hex.DecodeString(string(asset.PolicyID))
	if err != nil {
		return nil, malformed(field, "invalid policy id")
	}
	name, err := hex.DecodeString(string(asset.AssetName))
	if err != nil {
		return nil, malformed(field, "invalid asset name")
	}
	return NewConstr(0, Bytes(policy), Bytes(name)), nil
}

// Field decoders

func expectConstr(field string, d Data, tag uint64, arity int) ([]Data, error) {
	c, ok := d.(Constr)
	if !ok {
		return nil, malformed(field, fmt.Sprintf("expected constructor, got %T", d))
	}
	if c.Tag != tag {
		return nil, malformed(field, fmt.Sprintf("expected constructor %d, got %d", tag, c.Tag))
	}
	if len(c.Fields) != arity {
		return nil, malformed(field, fmt.Sprintf("expected %d fields, got %d", arity, len(c.Fields)))
	}
	return c.Fields, nil
}

func asInt64(field string, d Data) (int64, error) {
	i, ok := d.(Int)
	if !ok || i.Value == nil {
		return 0, malformed(field, fmt.Sprintf("expected integer, got %T", d))
	}
	if !i.Value.IsInt64() {
		return 0, malformed(field, fmt.Sprintf("integer %s out of range", i.Value))
	}
	return i.Value.Int64(), nil
}

func asBytes(field string, d Data) ([]byte, error) {
	b, ok := d.(Bytes)
	if !ok {
		return nil, malformed(field, fmt.Sprintf("expected bytes, got %T", d))
	}
	return b, nil
}

func asText(field string, d Data) (string, error) {
	b, err := asBytes(field, d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func asFixedHex(field string, d Data, size int) (string, error) {
	b, err := asBytes(field, d)
	if err != nil {
		return "", err
	}
	if len(b) != size {
		return "", malformed(field, fmt.Sprintf("expected %d bytes, got %d", size, len(b)))
	}
	return hex.EncodeToString(b), nil
}

func asKeyHash(field string, d Data) (domain.PubKeyHash, error) {
	s, err := asFixedHex(field, d, domain.KEY_HASH_LENGTH)
	return domain.PubKeyHash(s), err
}

func asAsset(field string, d Data) (domain.AssetRef, error) {
	fields, err := expectConstr(field, d, 0, 2)
	if err != nil {
		return domain.AssetRef{}, err
	}
	policy, err := asFixedHex(field+" policy", fields[0], domain.POLICY_ID_LENGTH)
	if err != nil {
		return domain.AssetRef{}, err
	}
	name, err := asBytes(field+" name", fields[1])
	if err != nil {
		return domain.AssetRef{}, err
	}
	if len(name) > domain.MAX_ASSET_NAME_LENGTH {
		return domain.AssetRef{}, malformed(field+" name", fmt.Sprintf("length %d exceeds %d bytes", len(name), domain.MAX_ASSET_NAME_LENGTH))
	}
	return domain.AssetRef{
		PolicyID:  domain.PolicyID(policy),
		AssetName: domain.AssetName(hex.EncodeToString(name)),
	}, nil
}

func asTime(field string, d Data) (time.Time, error) {
	ms, err := asInt64(field, d)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
