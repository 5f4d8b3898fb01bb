/*
Package x contains the standard extensions of the pool application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in the app package. This package
defines the Authenticator abstraction that lets handlers learn who
signed a transaction without depending on a concrete signature
scheme.
*/
package x
