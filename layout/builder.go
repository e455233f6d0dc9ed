package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/zap"

	"github.com/ByLCY/stickers/dsl"
)

const (
	tieBreakWeight  = 1e-3
	extraVarWeight  = 1e-4
	containerWeight = 1.0
)

type axis int

const (
	horizontal axis = iota
	vertical
)

// System 是编译后的约束系统。它不可变，可被多个 goroutine 同时 Solve。
//
// 变量布局：组件 i 占用 4i..4i+3（left, top, width, height），
// 之后是容器宽高，再之后是间距变量。
type System struct {
	names     []string
	vars      int
	cons      []constraint
	objective []float64
	logger    *zap.Logger
}

// Compile 解析约束文本并与组件名称一一绑定。names 的顺序即盒子的下标。
func Compile(source string, names []string, opts Options) (*System, error) {
	b := &builder{
		names:      names,
		index:      make(map[string]int, len(names)),
		referenced: make([]bool, len(names)),
		spacing:    opts.spacing(),
	}
	for i, name := range names {
		if _, dup := b.index[name]; dup {
			return nil, &Error{Msg: fmt.Sprintf("组件名称重复: %s", name)}
		}
		b.index[name] = i
	}
	b.vars = 4*len(names) + 2

	spec, err := dsl.ParseString(source)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &Error{Pos: perr.Position(), Msg: perr.Message(), Err: ErrSyntax}
		}
		return nil, &Error{Msg: err.Error(), Err: ErrSyntax}
	}
	for _, st := range spec.Statements {
		switch {
		case st.Relation != nil:
			err = b.relation(st.Relation)
		case st.Cascade != nil:
			err = b.cascade(st.Cascade)
		}
		if err != nil {
			return nil, err
		}
	}
	for i, ok := range b.referenced {
		if !ok {
			return nil, &Error{Msg: names[i], Err: ErrUnreferenced}
		}
	}

	sys := &System{
		names:     append([]string(nil), names...),
		vars:      b.vars,
		cons:      b.cons,
		objective: b.objective(),
		logger:    opts.logger(),
	}
	if _, err := solve(sys.vars, sys.cons, sys.objective); err != nil {
		if errors.Is(err, ErrInfeasible) {
			return nil, &Error{Msg: "必需约束互相矛盾", Err: ErrInfeasible}
		}
		return nil, &Error{Msg: "约束求解失败", Err: err}
	}
	sys.logger.Debug("layout compiled",
		zap.Int("components", len(names)),
		zap.Int("variables", sys.vars),
		zap.Int("constraints", len(sys.cons)))
	return sys, nil
}

// Names returns the component names in box order.
func (s *System) Names() []string { return append([]string(nil), s.names...) }

// Solve 加入本次的固有尺寸后求解。intrinsics[i] 为 nil 表示组件 i 没有固有尺寸。
// 固有尺寸以 strong 的 >= 和 medium 的 == 加入，因此不会让系统变得无解。
func (s *System) Solve(intrinsics []*Size) (*Geometry, error) {
	if len(intrinsics) != len(s.names) {
		return nil, &Error{Msg: fmt.Sprintf("固有尺寸数量 %d 与组件数量 %d 不一致", len(intrinsics), len(s.names))}
	}
	cons := make([]constraint, len(s.cons), len(s.cons)+4*len(intrinsics))
	copy(cons, s.cons)
	for i, size := range intrinsics {
		if size == nil {
			continue
		}
		for a, v := range [2]float64{size.Width, size.Height} {
			target := variable(sizeVar(i, axis(a))).plus(-v)
			cons = append(cons,
				constraint{expr: target, op: relGE, priority: 750},
				constraint{expr: target, op: relEQ, priority: 500})
		}
	}
	x, err := solve(s.vars, cons, s.objective)
	if err != nil {
		return nil, &Error{Msg: "约束求解失败", Err: err}
	}

	n := len(s.names)
	g := &Geometry{
		Container: Size{Width: clean(x[4*n]), Height: clean(x[4*n+1])},
		Boxes:     make([]Box, n),
	}
	for i, name := range s.names {
		g.Boxes[i] = Box{
			Name:   name,
			Left:   clean(x[4*i]),
			Top:    clean(x[4*i+1]),
			Width:  clean(x[4*i+2]),
			Height: clean(x[4*i+3]),
		}
	}
	s.logger.Debug("layout solved",
		zap.Float64("width", g.Container.Width),
		zap.Float64("height", g.Container.Height))
	return g, nil
}

// clean 去掉单纯形留下的浮点噪声。
func clean(v float64) float64 {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return 0
	}
	return v
}

func startVar(box int, a axis) int { return 4*box + int(a) }
func sizeVar(box int, a axis) int  { return 4*box + 2 + int(a) }

type builder struct {
	names      []string
	index      map[string]int
	referenced []bool
	spacing    float64
	vars       int
	extra      []int
	cons       []constraint
}

func (b *builder) extentVar(a axis) int { return 4*len(b.names) + int(a) }

func (b *builder) newVar() int {
	v := b.vars
	b.vars++
	b.extra = append(b.extra, v)
	return v
}

func (b *builder) add(expr linear, op relation, priority float64) {
	b.cons = append(b.cons, constraint{expr: expr, op: op, priority: priority})
}

// objective 先压缩容器，再按声明顺序让靠前的盒子更小、更靠近原点。
func (b *builder) objective() []float64 {
	obj := make([]float64, b.vars)
	n := len(b.names)
	for i := 0; i < n; i++ {
		w := tieBreakWeight * float64(n-i) / float64(n)
		for k := 0; k < 4; k++ {
			obj[4*i+k] = w
		}
	}
	obj[b.extentVar(horizontal)] = containerWeight
	obj[b.extentVar(vertical)] = containerWeight
	for _, v := range b.extra {
		obj[v] = extraVarWeight
	}
	return obj
}

func (b *builder) lookup(name string, pos lexer.Position) (int, error) {
	i, ok := b.index[name]
	if !ok {
		return 0, errorAt(pos, ErrUnknownKey, "%s", name)
	}
	b.referenced[i] = true
	return i, nil
}

func (b *builder) cascade(c *dsl.Cascade) error {
	var axes []axis
	switch c.Axis {
	case dsl.AxisNone, dsl.AxisHorizontal:
		axes = []axis{horizontal}
	case dsl.AxisVertical:
		axes = []axis{vertical}
	case dsl.AxisBoth:
		axes = []axis{horizontal, vertical}
	default:
		return errorAt(c.Pos, ErrSyntax, "未知的方向 %s:", c.Axis)
	}
	if err := checkShape(c); err != nil {
		return err
	}
	for _, a := range axes {
		if err := b.cascadeAxis(c, a); err != nil {
			return err
		}
	}
	return nil
}

// checkShape 校验序列形状：'|' 只在首尾，间距只在两个元素之间，且至少有一个视图。
func checkShape(c *dsl.Cascade) error {
	views := 0
	last := len(c.Items) - 1
	for i, it := range c.Items {
		switch {
		case it.Edge:
			if i != 0 && i != last {
				return errorAt(it.Pos, ErrSyntax, "'|' 只能出现在行首或行尾")
			}
		case it.Gap != nil:
			if i == 0 || i == last {
				return errorAt(it.Pos, ErrSyntax, "间距必须位于两个元素之间")
			}
			if c.Items[i-1].Gap != nil {
				return errorAt(it.Pos, ErrSyntax, "连续的间距")
			}
			if it.Gap.Value != nil && it.Gap.Close != it.Gap.Kind {
				return errorAt(it.Pos, ErrSyntax, "间距两端的符号不一致")
			}
		case it.View != nil:
			views++
		}
	}
	if views == 0 {
		return errorAt(c.Pos, ErrSyntax, "至少需要一个组件")
	}
	return nil
}

func (b *builder) cascadeAxis(c *dsl.Cascade, a axis) error {
	shared := -1
	var prevEnd linear
	havePrev := false
	var pending *dsl.Connection
	for i, it := range c.Items {
		switch {
		case it.Gap != nil:
			pending = it.Gap
			continue
		case it.Edge && i == 0:
			prevEnd, havePrev = constant(0), true
		case it.Edge:
			if err := b.link(prevEnd, variable(b.extentVar(a)), pending, a, &shared); err != nil {
				return err
			}
		case it.View != nil:
			box, err := b.lookup(it.View.Name, it.View.Pos)
			if err != nil {
				return err
			}
			for _, p := range it.View.Predicates {
				if err := b.predicate(sizeVar(box, a), p, a); err != nil {
					return err
				}
			}
			start := variable(startVar(box, a))
			if havePrev {
				if err := b.link(prevEnd, start, pending, a, &shared); err != nil {
					return err
				}
			}
			prevEnd, havePrev = start.add(variable(sizeVar(box, a))), true
		}
		pending = nil
	}
	return nil
}

// link 约束 next - prev == gap。
func (b *builder) link(prev, next linear, conn *dsl.Connection, a axis, shared *int) error {
	gap := constant(0)
	switch {
	case conn == nil:
	case conn.Kind == "~":
		if *shared < 0 {
			*shared = b.newVar()
		}
		if err := b.gapValue(*shared, conn.Value, a); err != nil {
			return err
		}
		gap = variable(*shared)
	case conn.Value == nil:
		gap = constant(b.spacing)
	case conn.Value.Number != nil:
		gap = constant(*conn.Value.Number)
	default:
		g := b.newVar()
		if err := b.gapValue(g, conn.Value, a); err != nil {
			return err
		}
		gap = variable(g)
	}
	b.add(next.sub(prev).sub(gap), relEQ, requiredPriority)
	return nil
}

func (b *builder) gapValue(v int, value *dsl.Gap, a axis) error {
	if value == nil {
		return nil
	}
	if value.Number != nil {
		b.add(variable(v).plus(-*value.Number), relEQ, requiredPriority)
		return nil
	}
	for _, p := range value.Predicates {
		if err := b.predicate(v, p, a); err != nil {
			return err
		}
	}
	return nil
}

// predicate 约束 target op operand，operand 中的组件名指同一方向上的尺寸。
func (b *builder) predicate(target int, p *dsl.Predicate, a axis) error {
	op := p.Operand
	var rhs linear
	if op.Number != nil {
		rhs = constant(*op.Number)
	} else {
		box, err := b.lookup(op.Ref, p.Pos)
		if err != nil {
			return err
		}
		rhs = variable(sizeVar(box, a))
	}
	if op.Negative {
		rhs = rhs.scale(-1)
	}
	rhs, err := applyFactor(rhs, op.Factor, op.Offset, p.Pos)
	if err != nil {
		return err
	}
	rel, err := parseRelation(p.Op)
	if err != nil {
		return errorAt(p.Pos, ErrSyntax, "%v", err)
	}
	priority, err := resolvePriority(p.Priority)
	if err != nil {
		return err
	}
	b.add(variable(target).sub(rhs), rel, priority)
	return nil
}

func (b *builder) relation(r *dsl.Relation) error {
	lhs, err := b.attribute(r.Left)
	if err != nil {
		return err
	}
	var rhs linear
	switch {
	case r.Right.Const != nil:
		rhs = constant(r.Right.Const.Signed())
	case r.Right.Ref != nil:
		if rhs, err = b.attribute(r.Right.Ref); err != nil {
			return err
		}
		if rhs, err = applyFactor(rhs, r.Right.Factor, r.Right.Offset, r.Pos); err != nil {
			return err
		}
	}
	rel, err := parseRelation(r.Op)
	if err != nil {
		return errorAt(r.Pos, ErrSyntax, "%v", err)
	}
	priority, err := resolvePriority(r.Priority)
	if err != nil {
		return err
	}
	b.add(lhs.sub(rhs), rel, priority)
	return nil
}

// attribute 把 view.attr 展开为线性表达式；'|' 指容器，其左上角固定在原点。
func (b *builder) attribute(ref *dsl.AttrRef) (linear, error) {
	var start, size [2]linear
	if ref.View == "|" {
		start = [2]linear{constant(0), constant(0)}
		size = [2]linear{variable(b.extentVar(horizontal)), variable(b.extentVar(vertical))}
	} else {
		box, err := b.lookup(ref.View, ref.Pos)
		if err != nil {
			return linear{}, err
		}
		start = [2]linear{variable(startVar(box, horizontal)), variable(startVar(box, vertical))}
		size = [2]linear{variable(sizeVar(box, horizontal)), variable(sizeVar(box, vertical))}
	}
	switch ref.Attr {
	case dsl.AttrLeft:
		return start[horizontal], nil
	case dsl.AttrTop:
		return start[vertical], nil
	case dsl.AttrWidth:
		return size[horizontal], nil
	case dsl.AttrHeight:
		return size[vertical], nil
	case dsl.AttrRight:
		return start[horizontal].add(size[horizontal]), nil
	case dsl.AttrBottom:
		return start[vertical].add(size[vertical]), nil
	case dsl.AttrCenterX:
		return start[horizontal].add(size[horizontal].scale(0.5)), nil
	case dsl.AttrCenterY:
		return start[vertical].add(size[vertical].scale(0.5)), nil
	default:
		return linear{}, errorAt(ref.Pos, ErrSyntax, "未知的属性 %q", ref.Attr)
	}
}

func applyFactor(expr linear, factor *dsl.Factor, offset *dsl.Offset, pos lexer.Position) (linear, error) {
	if factor != nil {
		switch factor.Op {
		case "*":
			expr = expr.scale(factor.Value)
		case "/":
			if factor.Value == 0 {
				return linear{}, errorAt(pos, ErrSyntax, "除数不能为 0")
			}
			expr = expr.scale(1 / factor.Value)
		}
	}
	if offset != nil {
		expr = expr.plus(offset.Signed())
	}
	return expr, nil
}

func parseRelation(op string) (relation, error) {
	switch op {
	case "", "==":
		return relEQ, nil
	case ">=":
		return relGE, nil
	case "<=":
		return relLE, nil
	default:
		return relEQ, fmt.Errorf("未知的关系 %q", op)
	}
}

var namedPriorities = map[string]float64{
	"required": 1000,
	"strong":   750,
	"medium":   500,
	"weak":     250,
}

func resolvePriority(p *dsl.Priority) (float64, error) {
	if p == nil {
		return requiredPriority, nil
	}
	if p.Number != nil {
		if *p.Number < 0 || *p.Number > requiredPriority {
			return 0, errorAt(p.Pos, ErrSyntax, "优先级 %g 超出 0..1000", *p.Number)
		}
		return *p.Number, nil
	}
	v, ok := namedPriorities[p.Name]
	if !ok {
		return 0, errorAt(p.Pos, ErrSyntax, "未知的优先级 %q", p.Name)
	}
	return v, nil
}
