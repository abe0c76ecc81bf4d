// Package motionplan computes joint space solutions for Cartesian goals and
// interpolated trajectories over recorded scenes.
package motionplan

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sightworks/armcore/referenceframe"
	"github.com/sightworks/armcore/spatialmath"
)

// ErrUnreachable is returned when the solver cannot converge on the goal pose
// within its iteration budget. The caller's joint state is left untouched.
var ErrUnreachable = errors.New("goal pose is unreachable")

// deltaDim is the dimension of a pose delta: three translational components
// followed by three rotational ones.
const deltaDim = 6

// SolverOptions configure the inverse kinematics search. The zero value is not
// usable; start from DefaultSolverOptions.
type SolverOptions struct {
	// MaxIterations bounds the iterative search.
	MaxIterations int `json:"max_iterations"`
	// Tolerance is the maximum norm of the remaining pose delta, mixing meters
	// and radians, for a solution to be accepted.
	Tolerance float64 `json:"tolerance"`
	// Damping is the lambda of the damped least squares step. Larger values
	// trade convergence speed for stability near singularities.
	Damping float64 `json:"damping"`
}

// DefaultSolverOptions returns the solver configuration used when none is
// supplied.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{MaxIterations: 100, Tolerance: 1e-3, Damping: 0.05}
}

// Validate returns an error if the options cannot produce a bounded search.
func (o SolverOptions) Validate() error {
	if o.MaxIterations < 1 {
		return errors.New("solver max iterations must be at least 1")
	}
	if o.Tolerance <= 0 {
		return errors.New("solver tolerance must be positive")
	}
	if o.Damping <= 0 {
		return errors.New("solver damping must be positive")
	}
	return nil
}

// IKSolver solves for joint angles reaching a Cartesian goal pose using damped
// least squares iteration on a finite difference Jacobian.
type IKSolver struct {
	model  *referenceframe.Model
	opts   SolverOptions
	logger golog.Logger
}

// NewIKSolver returns a solver for the given model.
func NewIKSolver(model *referenceframe.Model, logger golog.Logger, opts SolverOptions) (*IKSolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid solver options")
	}
	return &IKSolver{model: model, opts: opts, logger: logger}, nil
}

// Solve searches for joint angles whose forward kinematics match goal within
// tolerance, starting from seed. Seeding with the arm's current state keeps
// solutions continuous as the goal moves smoothly, preventing joint flips.
// Candidates are clamped to joint limits every iteration, so a goal outside
// the reachable envelope fails with ErrUnreachable instead of clipping to a
// wrong pose.
func (ik *IKSolver) Solve(ctx context.Context, goal *spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error) {
	dof := len(ik.model.DoF())
	if len(seed) != dof {
		return nil, referenceframe.NewIncorrectInputLengthError(len(seed), dof)
	}
	q := ik.model.ClampToLimits(seed)

	jac := mat.NewDense(deltaDim, dof, nil)
	lhs := mat.NewDense(deltaDim, deltaDim, nil)
	var y mat.VecDense

	for iter := 0; iter < ik.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, _ := ik.model.Transform(q)
		dx := cur.ToDelta(goal)
		if floats.Dot(dx, dx) < ik.opts.Tolerance*ik.opts.Tolerance {
			ik.logger.Debugw("ik converged", "iterations", iter)
			return q, nil
		}

		ik.jacobian(jac, q, cur)

		// dq = J^T (J J^T + lambda^2 I)^-1 dx
		lhs.Mul(jac, jac.T())
		for i := 0; i < deltaDim; i++ {
			lhs.Set(i, i, lhs.At(i, i)+ik.opts.Damping*ik.opts.Damping)
		}
		if err := y.SolveVec(lhs, mat.NewVecDense(deltaDim, dx)); err != nil {
			return nil, errors.Wrap(ErrUnreachable, "singular jacobian")
		}
		var dq mat.VecDense
		dq.MulVec(jac.T(), &y)

		for i := range q {
			q[i].Value += dq.AtVec(i)
		}
		q = ik.model.ClampToLimits(q)
	}
	return nil, errors.Wrapf(ErrUnreachable, "no solution within %d iterations", ik.opts.MaxIterations)
}

// jacobian fills jac with the forward difference Jacobian of the pose delta at q.
func (ik *IKSolver) jacobian(jac *mat.Dense, q []referenceframe.Input, cur *spatialmath.Pose) {
	const h = 1e-6
	perturbed := make([]referenceframe.Input, len(q))
	copy(perturbed, q)
	for j := range q {
		perturbed[j].Value += h
		next, _ := ik.model.Transform(perturbed)
		perturbed[j].Value = q[j].Value
		col := cur.ToDelta(next)
		for i := 0; i < deltaDim; i++ {
			jac.Set(i, j, col[i]/h)
		}
	}
}
