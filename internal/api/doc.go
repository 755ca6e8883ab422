// Package api handles incoming HTTP requests for the five storefront
// services. Handlers decode and validate request bodies, call the service
// layer and translate its errors into status codes and safe messages.
// Mount* functions attach each service's routes to a chi router.
package api
