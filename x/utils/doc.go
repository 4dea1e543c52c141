/*
Package utils contains decorators shared by all transaction handlers:
panic recovery, logging and savepoints.
*/
package utils
