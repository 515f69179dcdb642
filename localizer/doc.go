// Package localizer holds the descriptor a package uses to declare which
// localizer translates its strings.
//
// The descriptor only records the choice. Loading the factory, checking that
// it is a factory and publishing the result are done by package resolver.
package localizer
