package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeMood() string {
	return `Measures inheritance depth, fan-out and the MOOD encapsulation/inheritance factors of Python classes.

USE WHEN:
- Reviewing a class hierarchy before a refactor
- Checking whether subclasses reuse or override most of what they inherit
- Finding classes that expose more state than they hide

INTERPRETING RESULTS:
- DIT (depth of inheritance tree) >= 4: deep hierarchy, behaviour is hard to trace
- NOC (number of children) >= 4: many subclasses depend on this class, change it carefully
- MIF/AIF near 1: the class mostly inherits methods/attributes rather than defining them
- MIF/AIF near 0: little is inherited (base classes always score 0 on inherited members)
- MHF/AHF near 0: almost nothing is hidden behind a leading underscore
- Factors are in [0, 1], rounded to two decimals; a factor with an empty denominator is 0
- The --Total-- record aggregates all classes; it has no DIT or NOC

METRICS RETURNED:
- Per class: cls, path, line, dit, noc, mif, mhf, aif, ahf
- total: corpus-wide mif, mhf, aif, ahf
- skipped: files that could not be read or parsed`
}

func describeGraph() string {
	return `Builds the class inheritance graph of Python sources as a Mermaid or Graphviz diagram.

USE WHEN:
- Visualising a hierarchy before reading its metrics
- Spotting classes with many children or long base chains
- Finding bases that come from outside the analyzed code (external=true)

INTERPRETING RESULTS:
- Edges point from a subclass to its base
- Dashed nodes and edges are bases outside the analyzed files
- Inheritance cycles are reported as an error naming the classes involved

METRICS RETURNED:
- Diagram text by default; with format=json/toon/yaml: nodes (id, name, type, file, line) and edges (from, to, type)`
}
