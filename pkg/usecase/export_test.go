package usecase

// Hydrate is exported for testing
var Hydrate = hydrate

// EmptyRecord is exported for testing
var EmptyRecord = emptyRecord
