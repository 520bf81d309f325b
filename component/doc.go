// Package component defines lifecycle-managed services and a registry that
// starts them in order and stops them in reverse.
package component
