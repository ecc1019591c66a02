/*
Package server provides the daemon commands shared by applications: init
writes the genesis and config files, start serves the abci application over
a socket and version prints the build.
*/
package server
