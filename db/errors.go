package db

import "errors"

// ErrIntegrity reports that an insert was accepted by the store but the row
// could not be re-read by its generated id. It is always surfaced, never
// downgraded. A plain missing id is not an error: getters return (nil, nil)
// and deletes return (false, nil) for ids that do not exist.
var ErrIntegrity = errors.New("inserted row cannot be re-read")
