/*
Package app contains the ABCI application plumbing: a store that keeps
committed, check and deliver state apart, a router dispatching messages by
path, decorator chains and the BaseApp that ties them together.
*/
package app
