package constants

// DateLayout is the on-disk form of a log entry's change date.
const DateLayout = "2006-01-02"
