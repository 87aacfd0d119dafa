// Package errors provides structured, actionable error messages for the observe
// command line tool.
//
// Every error has a code that maps to a short message and a longer explanation:
//
//	err := errors.New("E101").
//	    WithKey("email").
//	    WithSuggestion("Known keys: age, name")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Key not found
//	//
//	//   key: email
//	//
//	//   The key is not part of the container. Containers have a fixed key set
//	//   taken from the initial state.
//	//
//	//   Hint: Known keys: age, name
//
// # Error Categories
//
//   - runtime: errors from values and containers (unknown key, listener panic)
//   - config: errors loading or validating the configuration file
//   - cli: errors in commands typed into the command line tool
//
// Classify turns errors returned by the library packages into coded errors.
package errors
