package driver

// both drivers and their transaction wrappers must satisfy the facade in full
var (
	_ ITransactionalDB = (*SQLWrapper)(nil)
	_ ITransactionalDB = (*SQLWrapperTx)(nil)
	_ ITransactionalDB = (*PGWrapper)(nil)
	_ ITransactionalDB = (*PGWrapperTx)(nil)
	_ ISQLRows         = (*PGQueryResult)(nil)
)
