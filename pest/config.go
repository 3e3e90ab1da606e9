package pest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maseology/mmio"
)

// Config is the run configuration carried between the setup stage and the
// forward-run executable: which parameter groups exist, where the optimizer
// writes their values, and which observation records constrain the run.
type Config struct {
	Name   string
	Mode   string // estimation mode hint (estimation, forecast, ...)
	Params []ConfigParam
	Obs    []ConfigObs
}

// ConfigParam locates one parameter group's artifacts.
type ConfigParam struct {
	Name    string
	Prop    string
	Keys    []string
	Parfile string
	Tpl     string
	Trans   Trans
	Btrans  Trans
}

// ConfigObs locates one observation record.
type ConfigObs struct {
	Locnme   string
	Datatype string
	Insfile  string
	Sigma    float64
	Lambda   float64
	Nobs     int
}

func kv(sb *strings.Builder, k, v string) { fmt.Fprintf(sb, "%s= %s\n", k, v) }

// WriteConfig writes the setup's run configuration file.
func (o *Optim) WriteConfig(fp string) error {
	sb := &strings.Builder{}
	sb.WriteString("[START_HEADER]\n")
	kv(sb, "name", o.Name)
	kv(sb, "dir", o.Dir)
	kv(sb, "nparblocks", fmt.Sprintf("%d", len(o.Params)))
	kv(sb, "nobsblocks", fmt.Sprintf("%d", len(o.Obs)))
	kv(sb, "nobs", fmt.Sprintf("%d", o.Nobs()))
	kv(sb, "ndatatypes", fmt.Sprintf("%d", o.Ndatatypes()))
	sb.WriteString("[END_HEADER]\n")
	for _, p := range o.Params {
		sb.WriteString("[START_PARAM]\n")
		kv(sb, "parname", p.Name)
		kv(sb, "prop", p.Prop)
		kv(sb, "keys", strings.Join(p.Index.Keys, ","))
		kv(sb, "parfile", filepath.Join(o.Dir, p.ParfileName()))
		kv(sb, "tplfile", filepath.Join(o.Dir, p.TplName()))
		kv(sb, "trans", string(p.Trans))
		kv(sb, "btrans", string(p.Btrans))
		sb.WriteString("[END_PARAM]\n")
	}
	for _, ob := range o.Obs {
		sb.WriteString("[START_OBS]\n")
		kv(sb, "locnme", ob.Locnme)
		kv(sb, "datatype", ob.Datatype)
		kv(sb, "insfile", filepath.Join(o.Dir, ob.InsName()))
		kv(sb, "sigma", fmt.Sprintf("%g", ob.Sigma))
		kv(sb, "lambda", fmt.Sprintf("%g", ob.Lambda))
		kv(sb, "nobs", fmt.Sprintf("%d", ob.Nobs()))
		sb.WriteString("[END_OBS]\n")
	}
	if err := os.WriteFile(fp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("Optim.WriteConfig: %v", err)
	}
	return nil
}

// ReadConfig parses a run configuration file.
func ReadConfig(fp string) (*Config, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("ReadConfig: file not found: %s", fp)
	}
	c := &Config{}
	var blk map[string]string
	var tag string
	flush := func() error {
		switch tag {
		case "HEADER":
			c.Name = blk["name"]
			c.Mode = blk["mode"]
		case "PARAM":
			p := ConfigParam{
				Name:    blk["parname"],
				Prop:    blk["prop"],
				Parfile: blk["parfile"],
				Tpl:     blk["tplfile"],
				Trans:   Trans(blk["trans"]),
				Btrans:  Trans(blk["btrans"]),
			}
			if blk["keys"] != "" {
				p.Keys = strings.Split(blk["keys"], ",")
			}
			if p.Name == "" || p.Prop == "" || p.Parfile == "" {
				return fmt.Errorf("parameter block missing parname, prop or parfile")
			}
			if err := p.Btrans.Check(); err != nil {
				return fmt.Errorf("parameter block '%s': %v", p.Name, err)
			}
			c.Params = append(c.Params, p)
		case "OBS":
			ob := ConfigObs{
				Locnme:   blk["locnme"],
				Datatype: blk["datatype"],
				Insfile:  blk["insfile"],
				Sigma:    1.,
				Lambda:   1.,
			}
			if ob.Locnme == "" {
				return fmt.Errorf("observation block missing locnme")
			}
			if s, ok := blk["sigma"]; ok {
				v, err := atof(s)
				if err != nil {
					return fmt.Errorf("observation block '%s': %v", ob.Locnme, err)
				}
				ob.Sigma = v
			}
			if s, ok := blk["lambda"]; ok {
				v, err := atof(s)
				if err != nil {
					return fmt.Errorf("observation block '%s': %v", ob.Locnme, err)
				}
				ob.Lambda = v
			}
			if s, ok := blk["nobs"]; ok {
				fmt.Sscanf(s, "%d", &ob.Nobs)
			}
			c.Obs = append(c.Obs, ob)
		}
		return nil
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadConfig %s: %v", fp, err)
	}
	for i, ln := range lns {
		s := strings.TrimSpace(ln)
		switch {
		case s == "" || strings.HasPrefix(s, "#"):
		case strings.HasPrefix(s, "[START_"):
			tag = strings.TrimSuffix(strings.TrimPrefix(s, "[START_"), "]")
			blk = map[string]string{}
		case strings.HasPrefix(s, "[END_"):
			if blk == nil {
				return nil, fmt.Errorf("ReadConfig %s line %d: unmatched %s", fp, i+1, s)
			}
			if err := flush(); err != nil {
				return nil, fmt.Errorf("ReadConfig %s: %v", fp, err)
			}
			blk, tag = nil, ""
		case blk != nil:
			j := strings.Index(s, "=")
			if j < 0 {
				return nil, fmt.Errorf("ReadConfig %s line %d: expecting 'key= value'", fp, i+1)
			}
			blk[strings.TrimSpace(s[:j])] = strings.TrimSpace(s[j+1:])
		}
	}
	if blk != nil {
		return nil, fmt.Errorf("ReadConfig %s: unterminated [%s] block", fp, tag)
	}
	return c, nil
}
