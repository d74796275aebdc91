package formflow_test

import (
	"context"
	"fmt"

	"github.com/petrijr/formflow"
	"github.com/petrijr/formflow/pkg/rules"
)

func Example() {
	ctx := context.Background()

	w := formflow.New("signup").
		Step("Account", rules.Object(rules.Field("email", rules.Required()))).
		Step("Confirm", nil).
		Value("email", "").
		Finalize(func(ctx context.Context, v *formflow.FormValues) error {
			fmt.Println("saved", v.Text("email"))
			return nil
		}).
		MustBuild()

	out, err := w.RequestAdvance(ctx, nil)
	fmt.Println(out, err)

	_ = w.Values().Set("email", "gopher@example.com")
	out, _ = w.RequestAdvance(ctx, nil)
	fmt.Println(out, w.View().AdvanceLabel)

	out, _ = w.RequestAdvance(ctx, nil)
	fmt.Println(out, w.State().Completed)

	// Output:
	// invalid step "Account" is invalid: email: email is a required field
	// advanced Submit
	// saved gopher@example.com
	// submitted true
}
