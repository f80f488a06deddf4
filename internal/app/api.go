package app

// ApiAccessKey guards the operational REST API.
type ApiAccessKey string
