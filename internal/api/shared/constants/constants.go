package constants

const (
	MAX_PAGE_SIZE              = 200
	DEFAULT_TRANSACTIONS_LIMIT = 50
	DEFAULT_OFFSET             = uint64(0)
	MAX_WALLET_ADDRESS_LENGTH  = 256
	MAX_PROPERTY_ID_LENGTH     = 64
)
