package domain

const (
	// Ledger constants
	LOVELACE_UNIT         = "lovelace"
	KEY_HASH_LENGTH       = 28
	POLICY_ID_LENGTH      = 28
	DOCUMENT_HASH_LENGTH  = 32
	MAX_ASSET_NAME_LENGTH = 32

	// CIP-68 label prefixes: (100) reference token and (222) user token
	DEFAULT_REFERENCE_LABEL = "000643b0"
	DEFAULT_USER_LABEL      = "000de140"

	// Minimum lovelace attached to outputs
	DEFAULT_MIN_USER_LOVELACE   = 2_000_000
	DEFAULT_MIN_SCRIPT_LOVELACE = 5_000_000
)
