/*
Package runner implements the event-execution loop of a pathway simulation.

It is the single owner of membership updates: when a movement event fires, the
runner removes the agent from the source bubble, moves it into the destination
and asks it to decide again. Agents and bubbles never perform this update on
their own, so an agent is never observable in two bubbles at once.

# Usage

	env := memory.NewEnvironment()
	r := runner.New(env, topology,
		runner.WithHorizon(100),
		runner.WithStore(memory.NewStore()),
	)

	if err := r.Start(agents...); err != nil {
		log.Fatal(err)
	}
	res, err := r.Run(ctx)
*/
package runner
