// Package pkgroutine runs background work under a concurrency limit.
//
// Each task is named. Manager blocks callers while every slot is busy,
// recovers panics as ErrPanic errors, and joins task errors for Wait.
package pkgroutine
