// Package ctxutil stores request scoped values on context.Context.
//
// Values set through SetValue are mirrored onto the *gin.Context embedded
// with WithGinContext, so handlers and services read the same trace id and
// identity regardless of which context they hold.
package ctxutil
