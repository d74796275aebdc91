package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/formflow/pkg/api"
)

const millionaireMessage = "Because you said you are a millionaire you need to have 1 million"

func bankStatement() api.Validator {
	return Object(
		Field("money",
			When(Truthy("millionaire"),
				All(Required(), Number(), Min(1_000_000).WithMessage(millionaireMessage)),
				All(Required(), Number()),
			),
		),
	)
}

func TestObject_RequiredNames(t *testing.T) {
	v := Object(
		Field("firstName", Required()),
		Field("lastName", Required()),
	)

	errs := v.Validate(api.MustFormValues(
		api.Field{Name: "firstName", Value: "  "},
		api.Field{Name: "lastName", Value: ""},
	))
	require.Equal(t, api.FieldErrors{
		"firstName": "firstName is a required field",
		"lastName":  "lastName is a required field",
	}, errs)

	errs = v.Validate(api.MustFormValues(
		api.Field{Name: "firstName", Value: "Ada"},
		api.Field{Name: "lastName", Value: "Lovelace"},
	))
	require.True(t, errs.Valid())
}

func TestWhen_ConditionalMinimum(t *testing.T) {
	v := bankStatement()

	cases := []struct {
		name  string
		rich  bool
		money any
		want  string
	}{
		{name: "not millionaire, zero", rich: false, money: 0},
		{name: "not millionaire, blank", rich: false, money: "", want: "money is a required field"},
		{name: "millionaire, too little", rich: true, money: 500, want: millionaireMessage},
		{name: "millionaire, enough", rich: true, money: 2_000_000},
		{name: "millionaire, exactly", rich: true, money: 1_000_000},
		{name: "not a number", rich: false, money: "lots", want: "money must be a `number` type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Validate(api.MustFormValues(
				api.Field{Name: "millionaire", Value: tc.rich},
				api.Field{Name: "money", Value: tc.money},
			))
			require.Equal(t, tc.want, errs["money"])
			require.Equal(t, tc.want == "", errs.Valid())
		})
	}
}

func TestRules_BlankValuesPassOptionalChecks(t *testing.T) {
	v := Object(
		Field("age", Min(18), Max(120)),
		Field("nick", MinLength(3)),
		Field("color", OneOf("red", "green")),
	)
	require.True(t, v.Validate(api.MustFormValues()).Valid())

	errs := v.Validate(api.MustFormValues(
		api.Field{Name: "age", Value: 200},
		api.Field{Name: "nick", Value: "ab"},
		api.Field{Name: "color", Value: "blue"},
	))
	require.Equal(t, "age must be less than or equal to 120", errs["age"])
	require.Equal(t, "nick must be at least 3 characters", errs["nick"])
	require.Equal(t, "color must be one of the following values: red, green", errs["color"])

	errs = v.Validate(api.MustFormValues(api.Field{Name: "age", Value: "12"}))
	require.Equal(t, "age must be greater than or equal to 18", errs["age"])
}

func TestConditions(t *testing.T) {
	v := api.MustFormValues(
		api.Field{Name: "flag", Value: "true"},
		api.Field{Name: "count", Value: 3},
		api.Field{Name: "plan", Value: "pro"},
		api.Field{Name: "off", Value: false},
	)

	require.True(t, Is("flag", true)(v))
	require.True(t, Is("count", 3)(v))
	require.True(t, Is("plan", "pro")(v))
	require.False(t, Is("plan", "free")(v))
	require.False(t, Is("missing", "")(v))
	require.False(t, Is("count", []int{3})(v))

	require.True(t, Truthy("flag")(v))
	require.True(t, Truthy("count")(v))
	require.False(t, Truthy("off")(v))
	require.False(t, Truthy("missing")(v))
	require.True(t, Not(Truthy("off"))(v))
}

func TestMerge_FirstMessageWins(t *testing.T) {
	a := Object(Field("x", Required().WithMessage("from a")))
	b := Object(Field("x", Required().WithMessage("from b")), Field("y", Required()))

	errs := Merge(a, nil, b).Validate(api.MustFormValues())
	require.Equal(t, "from a", errs["x"])
	require.Equal(t, "y is a required field", errs["y"])

	require.Equal(t, "from a", Merge(nil, a).Validate(api.MustFormValues())["x"])
	require.True(t, Merge().Validate(api.MustFormValues()).Valid())
}

func TestWhen_NilBranches(t *testing.T) {
	v := Object(Field("x", When(Truthy("y"), nil, Required()), nil))
	require.False(t, v.Validate(api.MustFormValues()).Valid())
	require.True(t, v.Validate(api.MustFormValues(api.Field{Name: "y", Value: true})).Valid())
}
