// Package timeslot holds the wall-clock arithmetic behind timetables and
// absence requests: "HH:MM" parsing and display, "HH:MM - HH:MM" range
// validation, half-open overlap tests, the Sunday-first week model and the
// slot classifier that decides what a student may still request.
//
// Every function is pure and safe for concurrent use.
package timeslot
