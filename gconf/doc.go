/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object stored under its package
name. The configuration is loaded from the genesis file (`conf` section) and
validated before it is written. Once stored, it can be changed only by the
configuration owner via a patch message handled by
UpdateConfigurationHandler.
*/
package gconf
