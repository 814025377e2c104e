package notebook

import "strings"

// csvPathPlaceholder marks where the CSV path is inserted into a template
// line. The path is inserted verbatim: no quoting or escaping is applied,
// so a path containing a single quote yields a load cell that does not run.
const csvPathPlaceholder = "{{csv_path}}"

// cellTemplate is one immutable row of the analysis template.
type cellTemplate struct {
	kind  CellType
	lines []string

	// substitute is set on the rows whose lines contain csvPathPlaceholder.
	substitute bool
}

// render produces the cell for this row. lines is copied so the returned
// cell never aliases the template table.
func (t cellTemplate) render(csvPath string) Cell {
	source := make([]string, len(t.lines))
	for i, line := range t.lines {
		if t.substitute {
			line = strings.ReplaceAll(line, csvPathPlaceholder, csvPath)
		}
		source[i] = line
	}
	return Cell{Type: t.kind, Source: source}
}

// analysisTemplate is the notebook narrative, in order: title, imports,
// data load, summary statistics, mean chart, percentile chart, relative
// performance and a free-form section. The column names match the CSV
// written by the C benchmark harness:
//
//	name,description,iterations,min_ns,max_ns,mean_ns,median_ns,stddev_ns,p95_ns,p99_ns
var analysisTemplate = []cellTemplate{
	{
		kind: Markdown,
		lines: []string{
			"# Benchmark Analysis\n",
			"\n",
			"Analysis of benchmark results from `" + csvPathPlaceholder + "`",
		},
		substitute: true,
	},
	{
		kind: Code,
		lines: []string{
			"import pandas as pd\n",
			"import matplotlib.pyplot as plt\n",
			"import seaborn as sns\n",
			"\n",
			"# Set style\n",
			"plt.style.use('seaborn-v0_8-whitegrid')\n",
			"sns.set_palette('husl')\n",
			"%matplotlib inline",
		},
	},
	{
		kind: Code,
		lines: []string{
			"# Load benchmark data\n",
			"df = pd.read_csv('" + csvPathPlaceholder + "')\n",
			"print(f'Loaded {len(df)} benchmark results')\n",
			"df",
		},
		substitute: true,
	},
	{
		kind:  Markdown,
		lines: []string{"## Summary Statistics"},
	},
	{
		kind: Code,
		lines: []string{
			"# Summary statistics\n",
			"summary = df[['name', 'mean_ns', 'median_ns', 'stddev_ns', 'min_ns', 'max_ns']].copy()\n",
			"summary['cv_%'] = (summary['stddev_ns'] / summary['mean_ns'] * 100).round(2)\n",
			"summary",
		},
	},
	{
		kind:  Markdown,
		lines: []string{"## Mean Execution Time"},
	},
	{
		kind: Code,
		lines: []string{
			"fig, ax = plt.subplots(figsize=(12, 6))\n",
			"bars = ax.bar(df['name'], df['mean_ns'], yerr=df['stddev_ns'], capsize=5)\n",
			"ax.set_xlabel('Benchmark')\n",
			"ax.set_ylabel('Time (ns)')\n",
			"ax.set_title('Mean Execution Time with Standard Deviation')\n",
			"plt.xticks(rotation=45, ha='right')\n",
			"plt.tight_layout()\n",
			"plt.show()",
		},
	},
	{
		kind:  Markdown,
		lines: []string{"## Percentile Analysis"},
	},
	{
		kind: Code,
		lines: []string{
			"fig, ax = plt.subplots(figsize=(12, 6))\n",
			"x = range(len(df))\n",
			"width = 0.2\n",
			"\n",
			"ax.bar([i - width for i in x], df['median_ns'], width, label='Median')\n",
			"ax.bar(x, df['p95_ns'], width, label='P95')\n",
			"ax.bar([i + width for i in x], df['p99_ns'], width, label='P99')\n",
			"\n",
			"ax.set_xlabel('Benchmark')\n",
			"ax.set_ylabel('Time (ns)')\n",
			"ax.set_title('Percentile Comparison')\n",
			"ax.set_xticks(x)\n",
			"ax.set_xticklabels(df['name'], rotation=45, ha='right')\n",
			"ax.legend()\n",
			"plt.tight_layout()\n",
			"plt.show()",
		},
	},
	{
		kind:  Markdown,
		lines: []string{"## Relative Performance"},
	},
	{
		kind: Code,
		lines: []string{
			"# Relative performance (compared to fastest)\n",
			"baseline = df['mean_ns'].min()\n",
			"df['relative'] = (df['mean_ns'] / baseline).round(2)\n",
			"df[['name', 'mean_ns', 'relative']].sort_values('mean_ns')",
		},
	},
	{
		kind:  Markdown,
		lines: []string{"## Custom Analysis\n", "\n", "Add your own analysis below:"},
	},
	{
		kind:  Code,
		lines: []string{"# Your custom analysis here\n"},
	},
}
