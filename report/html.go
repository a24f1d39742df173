package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/haulplan/haulplan/config"
	"github.com/haulplan/haulplan/knapsack"
	"github.com/haulplan/haulplan/routing"
)

// htmlNode is one graph node in the embedded JSON payload. Value is the
// profit potential of the node's full stock, used for the colour scale.
type htmlNode struct {
	ID        string         `json:"id"`
	Inventory map[string]int `json:"inventory"`
	Value     float64        `json:"value"`
}

type htmlEdge struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Cost    float64 `json:"cost"`
	InRoute bool    `json:"in_route"`
}

type htmlDetour struct {
	Anchor string         `json:"anchor"`
	Node   string         `json:"node"`
	Cost   float64        `json:"cost"`
	Goods  map[string]int `json:"goods"`
}

type htmlPayload struct {
	Canvas           map[string]int            `json:"canvas"`
	Nodes            []htmlNode                `json:"nodes"`
	Edges            []htmlEdge                `json:"edges"`
	FinalRoute       []string                  `json:"final_route"`
	GoodsPicked      map[string]map[string]int `json:"goods_picked"`
	TargetCounts     map[string]int            `json:"target_counts"`
	Detours          []htmlDetour              `json:"detours"`
	RatioConstraints []string                  `json:"ratio_constraints"`
	BaseCost         float64                   `json:"base_cost"`
	DetourCost       float64                   `json:"detour_cost"`
	TotalCost        float64                   `json:"total_cost"`
	Profit           float64                   `json:"profit"`
	NetProfit        float64                   `json:"net_profit"`
	VerificationCost float64                   `json:"verification_cost"`
}

type htmlView struct {
	Width             int
	Height            int
	Profit            string
	TotalCost         string
	NetProfit         string
	BaseCost          string
	DetourCost        string
	VerificationCost  string
	WarehouseCapacity float64
	TruckCapacity     float64
	RatioSummary      template.HTML
	Payload           template.JS
}

// WriteHTML renders a self-contained interactive visualization of one plan:
// the road network as a force-directed graph with the final route
// highlighted, an animated truck marker, and summary panels for costs,
// constraints and detours. The page loads D3 from a CDN; everything else is
// inlined.
func WriteHTML(w io.Writer, inst *config.Instance, result knapsack.Result, plan routing.RoutePlan) error {
	payload, err := buildPayload(inst, result, plan)
	if err != nil {
		return err
	}

	view := htmlView{
		Width:             1200,
		Height:            800,
		Profit:            fmt.Sprintf("%.0f", result.Profit),
		TotalCost:         fmt.Sprintf("%.0f", plan.TotalCost),
		NetProfit:         fmt.Sprintf("%.0f", result.Profit-plan.TotalCost),
		BaseCost:          fmt.Sprintf("%.0f", plan.BackboneCost),
		DetourCost:        fmt.Sprintf("%.0f", plan.DetourCost),
		VerificationCost:  fmt.Sprintf("%.0f", plan.VerifiedDetourCost),
		WarehouseCapacity: inst.Constraints.WeightCapacity,
		TruckCapacity:     inst.Constraints.UnitCapacity,
		RatioSummary:      ratioSummary(inst.Constraints.Ratios),
		Payload:           template.JS(payload),
	}

	return pageTemplate.Execute(w, view)
}

// buildPayload assembles the JSON blob the in-page script consumes.
func buildPayload(inst *config.Instance, result knapsack.Result, plan routing.RoutePlan) ([]byte, error) {
	products := make([]string, 0, len(inst.Catalog))
	for name := range inst.Catalog {
		products = append(products, name)
	}

	nodes := make([]htmlNode, 0, len(inst.Nodes))
	for _, id := range inst.Nodes {
		stock := inst.Inventory[id]
		inv := make(map[string]int, len(products))
		value := 0.0
		for _, product := range products {
			inv[product] = stock[product]
			value += float64(stock[product]) * inst.Catalog[product].ProfitPerUnit
		}
		nodes = append(nodes, htmlNode{ID: id, Inventory: inv, Value: value})
	}

	routeEdges := make(map[string]bool, len(plan.FinalRoute))
	for i := 0; i+1 < len(plan.FinalRoute); i++ {
		routeEdges[undirectedKey(plan.FinalRoute[i], plan.FinalRoute[i+1])] = true
	}

	edges := make([]htmlEdge, 0, len(inst.Edges))
	for _, e := range inst.Edges {
		edges = append(edges, htmlEdge{
			Source:  e.Origin,
			Target:  e.Target,
			Cost:    e.Cost,
			InRoute: routeEdges[undirectedKey(e.Origin, e.Target)],
		})
	}

	detours := make([]htmlDetour, 0, len(plan.Detours))
	for _, d := range plan.Detours {
		detours = append(detours, htmlDetour{
			Anchor: d.Candidate.Anchor,
			Node:   d.Candidate.Node,
			Cost:   d.Candidate.Cost,
			Goods:  d.Picked,
		})
	}

	payload := htmlPayload{
		Canvas:           map[string]int{"width": 1200, "height": 800},
		Nodes:            nodes,
		Edges:            edges,
		FinalRoute:       plan.FinalRoute,
		GoodsPicked:      plan.GoodsPicked,
		TargetCounts:     result.Counts,
		Detours:          detours,
		RatioConstraints: ratioLines(inst.Constraints.Ratios),
		BaseCost:         plan.BackboneCost,
		DetourCost:       plan.DetourCost,
		TotalCost:        plan.TotalCost,
		Profit:           result.Profit,
		NetProfit:        result.Profit - plan.TotalCost,
		VerificationCost: plan.VerifiedDetourCost,
	}

	// json.Marshal escapes <, > and & by default, so the blob is safe
	// inside the inline <script> element.
	return json.Marshal(payload)
}

func undirectedKey(u, v string) string {
	if u > v {
		u, v = v, u
	}

	return u + "\x00" + v
}

func ratioLines(rules []knapsack.RatioRule) []string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		factor := strconv.FormatFloat(r.Factor, 'g', -1, 64)
		lines = append(lines, fmt.Sprintf("%s &le; %s &times; %s", r.Numerator, factor, r.Denominator))
	}

	return lines
}

func ratioSummary(rules []knapsack.RatioRule) template.HTML {
	lines := ratioLines(rules)
	if len(lines) == 0 {
		return "none"
	}

	return template.HTML(strings.Join(lines, "<br/>"))
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>haulplan Route Visualisation</title>
    <style>
      :root {
        color-scheme: light dark;
        font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      }
      body {
        margin: 0;
        background: linear-gradient(135deg, #0f172a 0%, #1e1b4b 100%);
        color: #f9fafb;
        display: flex;
        flex-direction: column;
        min-height: 100vh;
      }
      header {
        padding: 1.2rem 2rem;
        background: rgba(31, 41, 55, 0.8);
        border-bottom: 1px solid rgba(99, 102, 241, 0.2);
      }
      h1 { margin: 0; font-size: 1.6rem; color: #fbbf24; }
      main {
        flex: 1;
        display: flex;
        gap: 1.5rem;
        padding: 1.5rem;
        box-sizing: border-box;
      }
      #graph-container {
        flex: 1;
        background: rgba(15, 23, 42, 0.6);
        border-radius: 16px;
        position: relative;
        overflow: hidden;
        border: 1px solid rgba(99, 102, 241, 0.1);
      }
      svg { width: 100%; height: 100%; }
      .edge { stroke: #475569; stroke-width: 2; opacity: 0.5; }
      .edge-route { stroke: #f97316; stroke-width: 4; opacity: 0.95; }
      .edge-cost {
        fill: #cbd5e1;
        font-size: 12px;
        font-weight: 600;
        pointer-events: none;
      }
      .node { stroke: #f9fafb; stroke-width: 3; cursor: pointer; }
      .node-label {
        fill: #f3f4f6;
        font-size: 14px;
        font-weight: 700;
        text-anchor: middle;
        alignment-baseline: middle;
        pointer-events: none;
      }
      .truck { fill: #38bdf8; stroke: #0ea5e9; stroke-width: 3; }
      .sidebar { width: 360px; display: flex; flex-direction: column; gap: 1rem; }
      .panel {
        background: rgba(31, 41, 55, 0.8);
        border-radius: 14px;
        padding: 1.2rem 1.4rem;
        border: 1px solid rgba(99, 102, 241, 0.15);
      }
      .panel h2 { margin: 0 0 0.8rem; font-size: 1.2rem; color: #fbbf24; }
      .stats {
        display: grid;
        grid-template-columns: 1fr 1fr;
        gap: 0.6rem 1rem;
        font-size: 0.95rem;
      }
      .stats span:nth-child(even) { font-weight: 700; color: #fbbf24; }
      #pickups, #detours { font-size: 0.95rem; line-height: 1.6; }
      button {
        padding: 0.8rem;
        border-radius: 10px;
        border: none;
        background: #2563eb;
        color: white;
        font-weight: 700;
        cursor: pointer;
      }
      footer {
        padding: 1rem 1.5rem;
        text-align: center;
        font-size: 0.9rem;
        color: #9ca3af;
      }
    </style>
    <script src="https://cdn.jsdelivr.net/npm/d3@7"></script>
  </head>
  <body>
    <header>
      <h1>haulplan Route Visualisation</h1>
    </header>
    <main>
      <div id="graph-container">
        <svg id="graph" viewBox="0 0 {{.Width}} {{.Height}}"></svg>
      </div>
      <aside class="sidebar">
        <section class="panel">
          <h2>Summary</h2>
          <div class="stats">
            <span>Profit target</span><span>{{.Profit}}</span>
            <span>Travel cost</span><span>{{.TotalCost}}</span>
            <span>Net profit</span><span>{{.NetProfit}}</span>
            <span>Base path cost</span><span>{{.BaseCost}}</span>
            <span>Detour cost</span><span>{{.DetourCost}}</span>
            <span>Verification</span><span>{{.VerificationCost}}</span>
          </div>
        </section>
        <section class="panel">
          <h2>Progress</h2>
          <div id="status">Starting...</div>
          <div id="pickups"></div>
          <button id="replay">Replay animation</button>
        </section>
        <section class="panel">
          <h2>Constraints</h2>
          <div class="stats">
            <span>Warehouse (t)</span><span>{{.WarehouseCapacity}}</span>
            <span>Truck units</span><span>{{.TruckCapacity}}</span>
            <span>Ratios</span><span>{{.RatioSummary}}</span>
          </div>
        </section>
        <section class="panel">
          <h2>Detours</h2>
          <div id="detours"></div>
        </section>
      </aside>
    </main>
    <footer>Route edges in orange, truck marker in blue, node colour tracks profit potential.</footer>
    <script type="application/json" id="visualisation-data">{{.Payload}}</script>
    <script>
      const data = JSON.parse(document.getElementById("visualisation-data").textContent);
      const svg = d3.select("#graph");
      const g = svg.append("g");
      const width = data.canvas.width;
      const height = data.canvas.height;

      const valueExtent = d3.extent(data.nodes, node => node.value);
      const colour = d3.scaleSequential(d3.interpolatePlasma).domain(valueExtent);

      const zoom = d3.zoom().scaleExtent([0.1, 10]).on("zoom", event => {
        g.attr("transform", event.transform);
      });
      svg.call(zoom);

      const simulation = d3.forceSimulation(data.nodes)
        .force("link", d3.forceLink(data.edges)
          .id(d => d.id)
          .distance(edge => edge.cost * 15 + 80)
          .strength(0.3))
        .force("charge", d3.forceManyBody().strength(-800))
        .force("center", d3.forceCenter(width / 2, height / 2))
        .force("collision", d3.forceCollide().radius(35));

      const edges = g.append("g").selectAll("line")
        .data(data.edges)
        .join("line")
        .attr("class", edge => edge.in_route ? "edge edge-route" : "edge");

      const edgeLabels = g.append("g").selectAll("text")
        .data(data.edges)
        .join("text")
        .attr("class", "edge-cost")
        .text(edge => edge.cost);

      const nodes = g.append("g").selectAll("circle")
        .data(data.nodes)
        .join("circle")
        .attr("class", "node")
        .attr("r", 25)
        .attr("fill", node => colour(node.value || 0));

      nodes.append("title").text(node => {
        const inv = Object.entries(node.inventory)
          .filter(([, count]) => count > 0)
          .map(([product, count]) => product + ": " + count)
          .join(", ");
        return node.id + "\n" + (inv || "no inventory");
      });

      const labels = g.append("g").selectAll("text")
        .data(data.nodes)
        .join("text")
        .attr("class", "node-label")
        .text(node => node.id);

      const truck = g.append("circle").attr("class", "truck").attr("r", 12);

      simulation.on("tick", () => {
        edges
          .attr("x1", edge => edge.source.x)
          .attr("y1", edge => edge.source.y)
          .attr("x2", edge => edge.target.x)
          .attr("y2", edge => edge.target.y);
        edgeLabels
          .attr("x", edge => (edge.source.x + edge.target.x) / 2)
          .attr("y", edge => (edge.source.y + edge.target.y) / 2 - 8);
        nodes.attr("cx", node => node.x).attr("cy", node => node.y);
        labels.attr("x", node => node.x).attr("y", node => node.y);
      });

      const statusEl = document.getElementById("status");
      const pickupsEl = document.getElementById("pickups");
      const detourEl = document.getElementById("detours");

      if (data.detours.length === 0) {
        detourEl.textContent = "No detours required.";
      } else {
        detourEl.innerHTML = data.detours
          .map(d => d.anchor + " to " + d.node + " (cost " + d.cost.toFixed(1) + ") picks " +
            Object.entries(d.goods).map(([p, a]) => p + ": " + a).join(", "))
          .join("<br/>");
      }

      let collected = {};
      const visitedPickups = new Set();

      function formatCollected() {
        return Object.entries(data.target_counts)
          .map(([product, required]) => {
            const done = collected[product] >= required ? " done" : "";
            return "<div>" + product + ": <strong>" + collected[product] + "/" + required + "</strong>" + done + "</div>";
          })
          .join("");
      }

      function updateSidebar(stepIndex) {
        const nodeId = data.final_route[stepIndex];
        const goodsHere = data.goods_picked[nodeId];
        if (goodsHere && !visitedPickups.has(nodeId)) {
          Object.entries(goodsHere).forEach(([product, amount]) => {
            if (collected[product] !== undefined) {
              collected[product] += amount;
            }
          });
          visitedPickups.add(nodeId);
        }
        statusEl.innerHTML =
          "<strong>Step " + (stepIndex + 1) + "/" + data.final_route.length + "</strong><br/>" +
          "At node <strong>" + nodeId + "</strong>";
        pickupsEl.innerHTML = formatCollected();
      }

      function animateRoute() {
        collected = {};
        Object.keys(data.target_counts).forEach(key => { collected[key] = 0; });
        visitedPickups.clear();

        simulation.alpha(0.3).restart();
        setTimeout(() => {
          simulation.stop();

          let step = 0;
          updateSidebar(step);
          const startNode = data.nodes.find(n => n.id === data.final_route[0]);
          truck.attr("cx", startNode.x).attr("cy", startNode.y);

          const interval = setInterval(() => {
            step += 1;
            if (step >= data.final_route.length) {
              clearInterval(interval);
              return;
            }
            const node = data.nodes.find(n => n.id === data.final_route[step]);
            truck.transition().duration(600).attr("cx", node.x).attr("cy", node.y);
            updateSidebar(step);
          }, 1200);
        }, 3000);
      }

      setTimeout(animateRoute, 3000);
      document.getElementById("replay").addEventListener("click", animateRoute);
    </script>
  </body>
</html>
`))
