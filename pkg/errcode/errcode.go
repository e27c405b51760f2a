package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	UnknownTargetError
	InvalidPeriodError
	InvalidDateError
	InvalidGSEError
	InvalidFormatError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBDropTableError
	DBLockError
	DBLockHeldError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreSaveCycleError
	StoreSaveItemError
	StoreQueryError
	StoreCountError

	// Discovery errors
	DiscoverySearchError
	DiscoveryMetadbError

	// Fetch errors
	FetchRequestError
	FetchParseError

	// Catalog errors
	CatalogWriteError
	CatalogProjectExistsError
	CatalogCountError
	CatalogSchemaError

	// Metrics errors
	MetricsPushError

	// Optimizer errors
	OptimizerVacuumError
	OptimizerSizeError
)
