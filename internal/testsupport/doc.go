// Package testsupport provides builders shared by package tests:
// temp-directory configs and task stores with registered cleanup.
package testsupport
