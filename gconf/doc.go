/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration object under the "_c:<pkg>" key.
The object is seeded from the "gconf" section of the genesis file and can be
patched later by the configuration owner.

Not being able to load a configuration is a critical condition for the
application. Handlers should fail the request instead of guessing defaults.
*/
package gconf
