// Package rules provides composable step validators.
//
// A validator is described as data: an Object of Fields, each with an
// ordered list of Rules. The first failing rule of a field produces that
// field's message. Conditional requirements are expressed with When, so the
// wizard engine never branches on field values itself.
//
//	rules.Object(
//		rules.Field("millionaire"),
//		rules.Field("money",
//			rules.When(rules.Truthy("millionaire"),
//				rules.All(rules.Required(), rules.Min(1_000_000)),
//				rules.Required(),
//			),
//		),
//	)
//
// JSONSchema adapts a JSON Schema document into the same api.Validator
// contract.
package rules
