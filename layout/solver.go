package layout

import (
	"errors"
	"fmt"
	"math"
)

// 线性规划求解：两阶段单纯形，Bland 规则选主元，因此同一输入总得到同一解。
// 所有变量非负；软约束通过带权误差变量进入目标函数。

const (
	epsilon       = 1e-9
	feasibleTol   = 1e-6
	maxIterations = 50000

	requiredPriority = 1000.0
)

var errUnbounded = errors.New("目标函数无界")

type relation int

const (
	relEQ relation = iota
	relGE
	relLE
)

func (r relation) String() string {
	switch r {
	case relGE:
		return ">="
	case relLE:
		return "<="
	default:
		return "=="
	}
}

type term struct {
	v int
	c float64
}

// linear 表示 Σ c·x[v] + constant。
type linear struct {
	terms    []term
	constant float64
}

func variable(v int) linear     { return linear{terms: []term{{v: v, c: 1}}} }
func constant(c float64) linear { return linear{constant: c} }

func (l linear) add(o linear) linear {
	out := linear{terms: make([]term, 0, len(l.terms)+len(o.terms)), constant: l.constant + o.constant}
	out.terms = append(out.terms, l.terms...)
	out.terms = append(out.terms, o.terms...)
	return out
}

func (l linear) sub(o linear) linear { return l.add(o.scale(-1)) }

func (l linear) scale(k float64) linear {
	out := linear{terms: make([]term, len(l.terms)), constant: l.constant * k}
	for i, t := range l.terms {
		out.terms[i] = term{v: t.v, c: t.c * k}
	}
	return out
}

func (l linear) plus(c float64) linear {
	out := l.add(linear{})
	out.constant += c
	return out
}

// constraint 表示 expr op 0；priority 为 1000 时是必需约束。
type constraint struct {
	expr     linear
	op       relation
	priority float64
}

func (c constraint) required() bool { return c.priority >= requiredPriority }

// weight 把 0..1000 的优先级映射为目标函数权重，相邻强度相差约 31.6 倍。
func weight(priority float64) float64 {
	return math.Pow(10, 6*priority/requiredPriority)
}

type tableau struct {
	rows  [][]float64 // 每行最后一列为右端项
	basis []int
	cols  int
}

// solve minimises objective·x plus the weighted violation of soft constraints.
func solve(vars int, cons []constraint, objective []float64) ([]float64, error) {
	slacks, errs := 0, 0
	for _, c := range cons {
		if c.op != relEQ {
			slacks++
		}
		if !c.required() {
			if c.op == relEQ {
				errs += 2
			} else {
				errs++
			}
		}
	}
	artificial := vars + slacks + errs
	cols := artificial + len(cons)

	cost := make([]float64, cols)
	copy(cost, objective)

	t := &tableau{rows: make([][]float64, len(cons)), basis: make([]int, len(cons)), cols: cols}
	slack, errVar := vars, vars+slacks
	for i, c := range cons {
		row := make([]float64, cols+1)
		for _, tm := range c.expr.terms {
			row[tm.v] += tm.c
		}
		switch c.op {
		case relGE:
			row[slack] = -1
			slack++
		case relLE:
			row[slack] = 1
			slack++
		}
		if !c.required() {
			w := weight(c.priority)
			switch c.op {
			case relEQ:
				row[errVar], row[errVar+1] = 1, -1
				cost[errVar], cost[errVar+1] = w, w
				errVar += 2
			case relGE:
				row[errVar] = 1
				cost[errVar] = w
				errVar++
			case relLE:
				row[errVar] = -1
				cost[errVar] = w
				errVar++
			}
		}
		rhs := -c.expr.constant
		if rhs < 0 {
			for j := range row[:cols] {
				row[j] = -row[j]
			}
			rhs = -rhs
		}
		row[artificial+i] = 1
		row[cols] = rhs
		t.rows[i] = row
		t.basis[i] = artificial + i
	}

	phase1 := make([]float64, cols)
	for j := artificial; j < cols; j++ {
		phase1[j] = 1
	}
	if err := t.minimize(phase1, cols); err != nil {
		return nil, err
	}
	if t.value(phase1) > feasibleTol {
		return nil, ErrInfeasible
	}
	t.dropArtificials(artificial)
	if err := t.minimize(cost, artificial); err != nil {
		return nil, err
	}

	x := make([]float64, vars)
	for r, b := range t.basis {
		if b < vars {
			x[b] = t.rows[r][t.cols]
		}
	}
	return x, nil
}

func (t *tableau) value(cost []float64) float64 {
	sum := 0.0
	for r, b := range t.basis {
		sum += cost[b] * t.rows[r][t.cols]
	}
	return sum
}

// minimize 只允许下标小于 limit 的列进入基。
func (t *tableau) minimize(cost []float64, limit int) error {
	basic := make([]bool, t.cols)
	for iter := 0; iter < maxIterations; iter++ {
		for j := range basic {
			basic[j] = false
		}
		for _, b := range t.basis {
			basic[b] = true
		}

		enter := -1
		for j := 0; j < limit; j++ {
			if basic[j] {
				continue
			}
			reduced := cost[j]
			for r, b := range t.basis {
				reduced -= cost[b] * t.rows[r][j]
			}
			if reduced < -epsilon {
				enter = j
				break
			}
		}
		if enter < 0 {
			return nil
		}

		leave, best := -1, 0.0
		for r, row := range t.rows {
			a := row[enter]
			if a <= epsilon {
				continue
			}
			ratio := row[t.cols] / a
			if leave < 0 || ratio < best-epsilon || (math.Abs(ratio-best) <= epsilon && t.basis[r] < t.basis[leave]) {
				leave, best = r, ratio
			}
		}
		if leave < 0 {
			return errUnbounded
		}
		t.pivot(leave, enter)
	}
	return fmt.Errorf("单纯形迭代超过 %d 次", maxIterations)
}

func (t *tableau) pivot(r, c int) {
	row := t.rows[r]
	p := row[c]
	for j := range row {
		row[j] /= p
	}
	for i, other := range t.rows {
		if i == r {
			continue
		}
		f := other[c]
		if f == 0 {
			continue
		}
		for j := range other {
			other[j] -= f * row[j]
		}
	}
	t.basis[r] = c
}

// dropArtificials 在第一阶段之后把人工变量换出基；换不出的行是冗余约束，直接删除。
func (t *tableau) dropArtificials(artificial int) {
	redundant := make([]bool, len(t.rows))
	for r := range t.rows {
		if t.basis[r] < artificial {
			continue
		}
		redundant[r] = true
		for j := 0; j < artificial; j++ {
			if math.Abs(t.rows[r][j]) > epsilon {
				t.pivot(r, j)
				redundant[r] = false
				break
			}
		}
	}
	rows := make([][]float64, 0, len(t.rows))
	basis := make([]int, 0, len(t.basis))
	for r, row := range t.rows {
		if !redundant[r] {
			rows = append(rows, row)
			basis = append(basis, t.basis[r])
		}
	}
	t.rows, t.basis = rows, basis
}
