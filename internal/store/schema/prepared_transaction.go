package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PreparedTransaction represents the prepared_transactions table - journal of every unsigned
// transaction handed out by the API
type PreparedTransaction struct {
	// ID is a ULID assigned when the transaction is journaled
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Action is the protocol action the transaction performs (fractionalize, list, buy, ...)
	Action string `gorm:"column:action;not null;type:text"`
	// Actor is the payment key hash of the wallet that requested the transaction
	Actor string `gorm:"column:actor;not null;type:text"`
	// Subject identifies the entity transitioned (property id, fraction unit or output reference)
	Subject string `gorm:"column:subject;not null;type:text"`
	// TxCBOR is the hex encoded unsigned transaction
	TxCBOR string `gorm:"column:tx_cbor;not null;type:text"`
	TxHash string `gorm:"column:tx_hash;type:text"`
	// Fee in lovelace as a decimal string
	Fee string `gorm:"column:fee;type:text"`
	// Skeleton is the transaction skeleton handed to the ledger service
	Skeleton datatypes.JSON `gorm:"column:skeleton;not null;type:jsonb"`
	// Datums maps datum names to their hex encoding
	Datums datatypes.JSON `gorm:"column:datums;type:jsonb"`
	// SkeletonDigest is the sha256 of the canonical skeleton JSON
	SkeletonDigest string    `gorm:"column:skeleton_digest;not null;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PreparedTransaction model
func (PreparedTransaction) TableName() string {
	return "prepared_transactions"
}
