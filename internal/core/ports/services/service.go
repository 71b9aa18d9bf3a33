package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing engine functionality from the
// caller layer.
type ServiceContainer struct {
	Posting PostingSvcFacade
	Payment PaymentSvcFacade
}
