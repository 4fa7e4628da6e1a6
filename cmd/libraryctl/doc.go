// Command libraryctl reads and changes the library database from the command line.
//
// Usage:
//
//	libraryctl [flags] <command> [arguments]
//
// Commands:
//
//	books | copies | loans | fines | authors | categories | users
//	book <isbn> | copy <id> | loan <id> | fine <id>
//	lend <copy-id> <user-id> [yyyy-mm-dd]
//	return <loan-id> [yyyy-mm-dd]
//	delete-loan <loan-id>
//	delete-book <isbn>
//
// Results are written to stdout as JSON. The adapter is taken from -adapter, which defaults to
// ADAPTER_TYPE and then to "sqlite". The database must already contain the library schema.
package main
