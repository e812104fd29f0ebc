// Package core defines the shared language of asql.
//
// This package contains:
//   - the expression sum type (Variable, FunctionCall, literals, BinaryOp)
//   - the SELECT statement model (TableRef, Filter, SelectStatement)
//   - the schema catalog contract consumed by the validator
//
// pkg/core imports ONLY pkg/token and stdlib.
package core
