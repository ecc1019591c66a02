/*
Package utils provides decorators shared by all applications: panic recovery,
request logging, savepoints and action tagging.
*/
package utils
